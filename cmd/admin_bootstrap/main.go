// Command admin_bootstrap issues the first admin member so the portal can be
// used at all. It prints the uid and the one-time password.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"bsg-portal/registry/internal/api"
	"bsg-portal/registry/internal/auth"
	"bsg-portal/registry/internal/config"
	"bsg-portal/registry/internal/constants"
	"bsg-portal/registry/internal/db"
	"bsg-portal/registry/internal/logging"
	"bsg-portal/registry/internal/metrics"
	"bsg-portal/registry/internal/models/dtos"

	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configFile := flag.String("config", "", "optional YAML config file")
	first := flag.String("first", "", "first name")
	last := flag.String("last", "", "last name")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := logging.Init(cfg.AppEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logging.Close()

	ctx := context.Background()

	sqlxDB, err := db.InitPostgres(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer sqlxDB.Close()

	gormDB, err := db.InitPostgresORM(cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("connect postgres (gorm): %v", err)
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	deps, err := api.InitDependencies(ctx, cfg, sqlxDB, gormDB, metrics.NewMetricsRegistry(prometheus.NewRegistry()))
	if err != nil {
		log.Fatalf("init dependencies: %v", err)
	}
	defer deps.Close()

	role := string(constants.RoleAdmin)
	issued, err := deps.Services.Identity.IssueMember(ctx, auth.SystemCaller(), dtos.IssueMemberRequest{
		FirstName: *first,
		LastName:  *last,
		Role:      &role,
	})
	if err != nil {
		log.Fatalf("issue admin: %v", err)
	}

	fmt.Println("UID:     ", issued.UID)
	fmt.Println("Login:   ", issued.Login)
	fmt.Println("Password:", issued.Password)
}
