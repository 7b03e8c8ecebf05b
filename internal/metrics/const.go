package metrics

const Namespace = "hosting_dashboard"

const (
	LedgerTypeRedis  = "redis"
	LedgerTypeMemory = "memory"
)

const (
	FlowOutcomeSuccess    = "success"
	FlowOutcomeFailure    = "failure"
	FlowOutcomeSuperseded = "superseded"
	FlowOutcomeAbandoned  = "abandoned"
)

const (
	ClaimResultClaimed = "claimed"
	ClaimResultReplay  = "replay"
	ClaimResultError   = "error"
)
