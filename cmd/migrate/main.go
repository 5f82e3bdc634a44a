// migrate управляет схемой БД merjane. Без флагов показывает статус:
// применять миграции нужно явно, через -direction=up.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/badrothmani2021/merjane/internal/storage/postgres"
)

const defaultTimeout = 30 * time.Second

func main() {
	var (
		direction string
		steps     int
		dsn       string
	)

	flag.StringVar(&direction, "direction", "status", "status|up|down (default inspects without touching the schema)")
	flag.IntVar(&steps, "steps", 0, "how many migrations to apply or roll back (0 = all for up, 1 for down)")
	flag.StringVar(&dsn, "dsn", "", "postgres DSN of the merjane database (fallback: MERJANE_POSTGRES_DSN)")
	flag.Parse()

	if strings.TrimSpace(dsn) == "" {
		dsn = strings.TrimSpace(os.Getenv("MERJANE_POSTGRES_DSN"))
	}
	if dsn == "" {
		fail("MERJANE_POSTGRES_DSN (or -dsn) is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	store, err := postgres.Open(ctx, dsn)
	if err != nil {
		fail("open postgres store: %v", err)
	}
	defer store.Close()

	switch normalizeDirection(direction) {
	case "up":
		if err := store.MigrateUp(ctx, steps); err != nil {
			fail("migrate up failed: %v", err)
		}
		reportStatus(ctx, store, "migrate up ok")
	case "down":
		if steps <= 0 {
			steps = 1
		}
		if err := store.MigrateDown(ctx, steps); err != nil {
			fail("migrate down failed: %v", err)
		}
		reportStatus(ctx, store, "migrate down ok")
	case "status":
		reportStatus(ctx, store, "merjane schema")
	default:
		fail("unsupported direction: %s (use status|up|down)", direction)
	}
}

// normalizeDirection приводит значение флага к каноническому виду.
func normalizeDirection(direction string) string {
	return strings.ToLower(strings.TrimSpace(direction))
}

// reportStatus печатает текущую версию схемы и число применённых миграций.
func reportStatus(ctx context.Context, store *postgres.Store, prefix string) {
	version, count, err := store.MigrationStatus(ctx)
	if err != nil {
		fail("migration status failed: %v", err)
	}
	fmt.Printf("%s: version=%d applied=%d\n", prefix, version, count)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
