package db

import (
	"log"
	"math/rand"
	"os"
	"time"

	"sleepless/internal/models"
	"sleepless/internal/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		// Fallback for local dev if not set
		path = "sleepless.db"
	}

	var err error
	DB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.Post{},
		&models.DailyCount{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	// Seed sample thoughts
	seedPosts()
}

// seedPosts 首次启动时填充示例内容，避免空板
func seedPosts() {
	var count int64
	DB.Model(&models.Post{}).Count(&count)
	if count > 0 {
		log.Println("Posts already seeded, skipping")
		return
	}

	samples := []struct {
		content  string
		language string
	}{
		{"tired but wired", "en"},
		{"monday again", "en"},
		{"why though", "en"},
		{"big mood", "en"},
		{"narrator voice: it wasn't fine", "en"},
		{"touch grass", "en"},
		{"same energy", "en"},
		{"今日も疲れた", "ja"},
		{"なんで眠れないんだろう", "ja"},
		{"雨の音が心地いい", "ja"},
		{"一人の時間が好き", "ja"},
		{"made tea and forgot about it. found it cold on the counter 3 hours later", "en"},
		{"that brief panic when you can't find your phone while holding your phone", "en"},
		{"why do i always remember embarrassing things from 2019 at 2am", "en"},
		{"spent 20 minutes choosing a netflix show just to scroll on my phone instead", "en"},
		{"grocery shopping while hungry was a financial mistake", "en"},
		{"the commitment it takes to finish a chapstick without losing it", "en"},
		{"having 47 tabs open and somehow still opening more", "en"},
		{"main character energy but side character budget", "en"},
		{"my therapist is gonna hear about this", "en"},
		{"why am i like this (rhetorical)", "en"},
		{"living my best life (citation needed)", "en"},
		{"sounds fake but okay", "en"},
		{"everything is content now apparently", "en"},
		{"what if colors look different to everyone but we all learned the same names", "en"},
		{"sometimes i think my cat understands me better than most people", "en"},
		{"wondering if parallel universe me is living my best life", "en"},
	}

	for _, s := range samples {
		post := models.Post{
			Pid:      utils.RandomPid(8),
			Content:  s.content,
			Language: s.language,
			// 散落在过去一周内，显得像真实时间线
			CreatedAt: time.Now().Add(-time.Duration(rand.Int63n(int64(7 * 24 * time.Hour)))),
		}
		if err := DB.Create(&post).Error; err != nil {
			log.Printf("Failed to seed post %q: %v", s.content, err)
		}
	}
	log.Println("Sample thoughts created successfully")
}
