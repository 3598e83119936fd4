package temporalx

import (
	"time"

	"github.com/yungbote/literacy-backend/internal/platform/envutil"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string

	DialTimeout       time.Duration
	DialMaxWait       time.Duration
	DialBackoff       time.Duration
	DialBackoffMax    time.Duration
	AutoRegister      bool
	RetentionDays     int
	SweepCron         string
	SweepWorkflowID   string
	SweepActivityTime time.Duration
}

func LoadConfig() Config {
	return Config{
		Address:   envutil.String("TEMPORAL_ADDRESS", ""),
		Namespace: envutil.String("TEMPORAL_NAMESPACE", "literacy"),
		TaskQueue: envutil.String("TEMPORAL_TASK_QUEUE", "literacy"),

		ClientCertPath: envutil.String("TEMPORAL_CLIENT_CERT_PATH", ""),
		ClientKeyPath:  envutil.String("TEMPORAL_CLIENT_KEY_PATH", ""),
		ClientCAPath:   envutil.String("TEMPORAL_CLIENT_CA_PATH", ""),

		DialTimeout:       envutil.Seconds("TEMPORAL_DIAL_TIMEOUT_SECONDS", 5),
		DialMaxWait:       envutil.Seconds("TEMPORAL_DIAL_MAX_WAIT_SECONDS", 60),
		DialBackoff:       envutil.Millis("TEMPORAL_DIAL_BACKOFF_MS", 250),
		DialBackoffMax:    envutil.Millis("TEMPORAL_DIAL_BACKOFF_MAX_MS", 5000),
		AutoRegister:      envutil.Bool("TEMPORAL_AUTO_REGISTER_NAMESPACE", false),
		RetentionDays:     envutil.Int("TEMPORAL_NAMESPACE_RETENTION_DAYS", 7),
		SweepCron:         envutil.String("TEMPORAL_SWEEP_CRON", "*/5 * * * *"),
		SweepWorkflowID:   envutil.String("TEMPORAL_SWEEP_WORKFLOW_ID", "translation-sweep"),
		SweepActivityTime: envutil.Seconds("TEMPORAL_SWEEP_ACTIVITY_TIMEOUT_SECONDS", 600),
	}
}

func (c Config) Enabled() bool { return c.Address != "" }
