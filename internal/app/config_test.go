package app

import (
	"strings"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("OTEL_SAMPLER_RATIO", "0.5")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != 8080 || cfg.Addr() != ":8080" {
		t.Fatalf("port=%d", cfg.Port)
	}
	if cfg.LockTTL != 10*time.Second || cfg.GraphAPITimeout != 10*time.Second {
		t.Fatalf("durations: lock=%s graph=%s", cfg.LockTTL, cfg.GraphAPITimeout)
	}
	if cfg.GraphAPIBase != "https://graph.facebook.com/v2.6" {
		t.Fatalf("graph base=%q", cfg.GraphAPIBase)
	}
	if cfg.RoomOpenHour != 8 || cfg.RoomCloseHour != 22 || !cfg.MetricsEnabled {
		t.Fatalf("cfg=%+v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 {
		t.Fatalf("origins=%v", cfg.CORSAllowedOrigins)
	}
	if cfg.Otel.ServiceName != "roomfinder" || cfg.Otel.SampleRatio != 0.5 || cfg.Otel.Enabled {
		t.Fatalf("otel=%+v", cfg.Otel)
	}
	campus, err := cfg.Campus()
	if err != nil || campus.String() != "Australia/Sydney" {
		t.Fatalf("campus=%v err=%v", campus, err)
	}
	sc := searchConfig(cfg, campus)
	if sc.OpenHour != 8 || sc.CloseHour != 22 || sc.Location != campus {
		t.Fatalf("search config=%+v", sc)
	}
}

func TestConfigValidate(t *testing.T) {
	base := Config{DBDriver: "postgres", CampusTimezone: "UTC", RoomOpenHour: 8, RoomCloseHour: 22}
	cases := []struct {
		name string
		edit func(c *Config)
		want string
	}{
		{"ok", func(*Config) {}, ""},
		{"driver", func(c *Config) { c.DBDriver = "mysql" }, "DB_DRIVER"},
		{"hours", func(c *Config) { c.RoomOpenHour = 22; c.RoomCloseHour = 8 }, "campus hours"},
		{"timezone", func(c *Config) { c.CampusTimezone = "Mars/Olympus" }, "CAMPUS_TIMEZONE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base
			tc.edit(&c)
			err := c.Validate()
			if tc.want == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err=%v want %q", err, tc.want)
			}
		})
	}
}

func TestRequireMessenger(t *testing.T) {
	err := Config{}.RequireMessenger()
	if err == nil || !strings.Contains(err.Error(), "PAGE_ACCESS_TOKEN") || !strings.Contains(err.Error(), "VERIFY_TOKEN") {
		t.Fatalf("err=%v", err)
	}
	if err := (Config{PageAccessToken: "p", VerifyToken: "v"}).RequireMessenger(); err != nil {
		t.Fatalf("err=%v", err)
	}
}
