package client_test

import (
	"context"
	"fmt"
	"log"

	"github.com/jonwraymond/pjlink/client"
	"github.com/jonwraymond/pjlink/pjlinktest"
)

func Example() {
	srv := pjlinktest.NewServer(pjlinktest.Config{})
	defer srv.Close()

	ctrl, err := client.New(client.Config{
		Host: srv.Host(),
		Port: srv.Port(),
		Name: "auditorium",
	})
	if err != nil {
		log.Fatal(err)
	}
	defer ctrl.Close()

	ctx := context.Background()

	if res := ctrl.PowerOn(ctx); !res.Success {
		log.Fatalf("power on: %s", res.Error)
	}

	state, res := ctrl.GetPowerState(ctx)
	if !res.Success {
		log.Fatalf("power query: %s", res.Error)
	}
	fmt.Println("power:", state)

	// Output:
	// power: on
}
