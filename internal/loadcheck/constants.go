package loadcheck

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	PercentageMultiplier = 100
	tagLength            = 8
)

// Submission outcomes.
const (
	outcomeCreated  = "created"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)
