package ports

// Publish-failure strategies for the relay.
const (
	PublishRetryDrop = "retry_drop"
	PublishAbort     = "abort"
)

// Policy controls queue sizing and the relay's publish behavior.
// PublishRetries counts attempts after the first: 0 means "use the default";
// -1 means publish exactly once, never retry.
type Policy struct {
	QueueCapacity  int      `yaml:"queue_capacity"`
	PublishRetries int      `yaml:"publish_retries"`
	PublishBackoff Duration `yaml:"publish_backoff"`
	PacingDelay    Duration `yaml:"pacing_delay"`

	OnPublishFailure string `yaml:"on_publish_failure"` // "retry_drop" or "abort"
}
