package worker

// Job asks the worker to run the configured job Name. Trigger records what
// caused it ("cron", "watch", ...) for the logs.
type Job struct {
	Name    string
	Trigger string
}
