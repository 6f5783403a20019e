/*
Package observability provides lifecycle hooks that turn engine events into
Prometheus metrics and structured log lines.

Both are plain domain.LifecycleHooks values and compose with Merge:

	m := observability.NewMetrics(prometheus.DefaultRegisterer)
	hooks := m.Hooks().Merge(observability.LoggingHooks(logger))
	eng, _ := careerpath.New(oracle, careerpath.WithLifecycleHooks(hooks))
	planner := observability.InstrumentPlanner(eng, m)
*/
package observability
