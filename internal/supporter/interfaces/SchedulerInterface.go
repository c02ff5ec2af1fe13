package interfaces

type SchedulerInterface interface {
	Start()
	Stop()
	Warm() error
}
