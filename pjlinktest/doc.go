// Package pjlinktest provides an in-process PJLink projector for tests, in
// the spirit of httptest: a real listening socket with fully scriptable
// behavior.
//
//	srv := pjlinktest.NewServer(pjlinktest.Config{Password: "panama"})
//	defer srv.Close()
//
//	conn, _ := pool.Get(ctx, srv.Host(), srv.Port())
//
// The server keeps projector state (power, input, mute) and answers the
// class 1 command set plus a few class 2 commands. Failure injection is
// available at runtime: response latency, malformed lines, greeting
// refusal, per-connection disconnects after N commands, and per-command
// response overrides.
package pjlinktest
