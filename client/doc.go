// Package client provides the resilient projector controller: a façade
// that composes the connection pool, circuit breaker, retry policy and
// wire codec into one synchronous API per target.
//
// Every public operation returns a Result instead of an error. Ordinary
// failures (unreachable device, ERR3 while warming up, open circuit) are
// data, not control flow; only construction fails with an error, and only
// for impossible configuration.
//
//	ctrl, err := client.New(client.Config{Host: "10.0.0.1"})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer ctrl.Close()
//
//	if res := ctrl.PowerOn(ctx); !res.Success {
//		log.Printf("power on failed after %d attempts: %s", res.Attempts, res.Error)
//	}
//
// The circuit breaker is scoped to the controller, so to one target. A
// string of failed pings opens the circuit for power queries too; one
// misbehaving device gets one verdict, regardless of which operation
// exposed it.
package client
