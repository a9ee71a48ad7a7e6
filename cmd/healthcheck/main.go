// main.go
//
// Donation coordination service for children's homes and orphanages
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of caredonate.
// caredonate is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// caredonate is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with caredonate.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/config"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/database"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/logging"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/services"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logging.Init("caredonate-healthcheck", cfg.Env, "warn")

	// The server must accept connections before dependencies matter
	if err := utils.PingServer(cfg.Port); err != nil {
		output, _ := json.Marshal(services.HealthCheckResult{Status: "unhealthy", ErrorMessage: err.Error()})
		fmt.Println(string(output))
		os.Exit(1)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rdb, redisErr := database.ConnectRedis(ctx, cfg)
	if rdb != nil {
		defer rdb.Close()
	}

	result := services.HealthCheck(ctx, cfg, db, rdb)
	if redisErr != nil {
		result.Status = "unhealthy"
		result.Redis = "unreachable"
		result.ErrorMessage = redisErr.Error()
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}
	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
