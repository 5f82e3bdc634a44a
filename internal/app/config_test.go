package app

import "testing"

func TestDefaultConfig_Values(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("expected HTTPAddr :8080, got %s", cfg.HTTPAddr)
	}

	if cfg.MetricsAddr != ":9090" {
		t.Errorf("expected MetricsAddr :9090, got %s", cfg.MetricsAddr)
	}
}

func TestConfig_PortFormats(t *testing.T) {
	testCases := []struct {
		name        string
		httpAddr    string
		metricsAddr string
	}{
		{
			name:        "standard ports",
			httpAddr:    ":8080",
			metricsAddr: ":9090",
		},
		{
			name:        "custom ports",
			httpAddr:    ":8081",
			metricsAddr: ":9091",
		},
		{
			name:        "with host",
			httpAddr:    "localhost:8080",
			metricsAddr: "localhost:9090",
		},
		{
			name:        "with IP",
			httpAddr:    "0.0.0.0:8080",
			metricsAddr: "0.0.0.0:9090",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Config{
				HTTPAddr:    tc.httpAddr,
				MetricsAddr: tc.metricsAddr,
			}

			if cfg.HTTPAddr != tc.httpAddr {
				t.Errorf("expected HTTPAddr %s, got %s", tc.httpAddr, cfg.HTTPAddr)
			}

			if cfg.MetricsAddr != tc.metricsAddr {
				t.Errorf("expected MetricsAddr %s, got %s", tc.metricsAddr, cfg.MetricsAddr)
			}
		})
	}
}

func TestConfig_Copy(t *testing.T) {
	original := DefaultConfig()
	copied := original

	copied.HTTPAddr = ":8081"

	// Value semantics: оригинал не должен меняться
	if original.HTTPAddr != ":8080" {
		t.Error("original config was modified")
	}

	if copied.HTTPAddr != ":8081" {
		t.Error("copy was not modified")
	}
}
