package Models

import (
	"log"

	"Tracker/Config"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect(settings Config.Settings) {
	connection, err := gorm.Open(sqlite.Open(settings.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to open database %s: %v", settings.DatabasePath, err)
	}
	DB = connection

	// 1. Users first, everything else hangs off a student id
	DB.AutoMigrate(&User{})

	// 2. Field catalog and weekly plan
	DB.AutoMigrate(
		&TaskDefinition{},
		&TaskEntry{}, // references TaskDefinition
	)

	// 3. Daily reports last
	DB.AutoMigrate(&DailyReport{})

	log.Printf("Connected to %s", settings.DatabasePath)
}
