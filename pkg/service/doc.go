// Package service assembles a runnable countdown timer.
//
// A TimerService owns a timer.Store, the timer.Controller driving it and a
// bus.Bus delivering its signals. Optional collaborators are wired from the
// Config: a trace logger receiving every signal and state change, and a
// Ringer sounded when a run reaches zero.
//
// Example usage:
//
//	cfg := service.DefaultConfig()
//	cfg.Initial = 30
//
//	svc, err := service.NewTimerService(cfg)
//	svc.OnSignal(func(sig timer.Signal) { fmt.Println(sig.Type) })
//	svc.Start(ctx)
//	defer svc.Stop()
//
//	svc.Controller().Start()
package service
