// inspect_schema migrates every model into an in-memory pure-Go sqlite
// database and prints the DDL GORM produced.
//
//	go run ./tools
package main

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/kxshiii/-Children-s-Home-Orphanages-Donations/internal/database"
	"gorm.io/gorm"
)

type sqliteObject struct {
	Name string
	SQL  string
}

func main() {
	db, err := gorm.Open(sqlite.Open(":memory:?_pragma=foreign_keys(1)"), database.GormConfig("silent"))
	if err != nil {
		log.Fatal(err)
	}

	if err := database.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	var tables []sqliteObject
	err = db.Raw("SELECT name, sql FROM sqlite_master WHERE type = ? AND name NOT LIKE ? ORDER BY name", "table", "sqlite_%").
		Scan(&tables).Error
	if err != nil {
		log.Fatal(err)
	}

	for _, table := range tables {
		fmt.Printf("\n=== Table: %s ===\n%s\n", table.Name, table.SQL)

		var indexes []sqliteObject
		err := db.Raw("SELECT name, sql FROM sqlite_master WHERE type = ? AND tbl_name = ? AND sql IS NOT NULL ORDER BY name", "index", table.Name).
			Scan(&indexes).Error
		if err != nil {
			log.Fatal(err)
		}
		for _, index := range indexes {
			fmt.Println(index.SQL + ";")
		}
	}
}
