package kafka_config

import "testing"

func TestLoad_ConsumerGroupPrefix(t *testing.T) {
	t.Run("defaults to paddock", func(t *testing.T) {
		cfg := Load()

		if cfg.ConsumerGroupPrefix != DefaultConsumerGroupPrefix {
			t.Errorf("ConsumerGroupPrefix = %q, want %q", cfg.ConsumerGroupPrefix, DefaultConsumerGroupPrefix)
		}
		if got := cfg.ConsumerGroupID("workload"); got != "paddock-workload" {
			t.Errorf("ConsumerGroupID(\"workload\") = %q, want %q", got, "paddock-workload")
		}
	})

	t.Run("environment override", func(t *testing.T) {
		t.Setenv(EnvKafkaConsumerGroupPrefix, "stable-ops")

		cfg := Load()

		if got := cfg.ConsumerGroupID("workload"); got != "stable-ops-workload" {
			t.Errorf("ConsumerGroupID(\"workload\") = %q, want %q", got, "stable-ops-workload")
		}
	})
}

func TestValidate_RejectsEmptyGroupPrefix(t *testing.T) {
	cfg := Load()
	cfg.ConsumerGroupPrefix = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() accepted an empty ConsumerGroupPrefix")
	}
}
