package pipeline

// Phase tags the step that failed.
type Phase string

const (
	PhaseLargeFileNotice   Phase = "sendLargeFileError"
	PhaseAnnounce          Phase = "sendAction"
	PhaseCredentialsNotice Phase = "sendCredentialsError"
	PhaseTranscription     Phase = "sendTranscription"
	PhaseErrorNotice       Phase = "updateMessageWithError"
	PhaseHandleMessage     Phase = "handleMessage"
)

// Outcome is the terminal result of one request.
type Outcome string

const (
	OutcomeDelivered          Outcome = "delivered"
	OutcomeTooLarge           Outcome = "too-large"
	OutcomeMissingCredentials Outcome = "missing-credentials"
	OutcomeFailed             Outcome = "failed"
	OutcomeIgnored            Outcome = "ignored"
)
