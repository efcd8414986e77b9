package seed

import (
	"log"

	"Postline/models"

	"gorm.io/gorm"
)

var users = []models.User{
	{
		Username: "leo",
		Email:    "leo@example.com",
		Password: "password",
	},
	{
		Username: "sasha",
		Email:    "sasha@example.com",
		Password: "password",
	},
}

var groups = []models.Group{
	{
		Title:       "Travel notes",
		Description: "Where we went and what we saw",
	},
	{
		Title:       "Kitchen experiments",
		Description: "Recipes that worked and the ones that didn't",
	},
}

var posts = []models.Post{
	{
		Text: "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor incididunt ut labore et dolore magna aliqua. Ut enim ad minim veniam, quis nostrud exercitation ullamco laboris nisi ut aliquip ex ea commodo consequat.",
	},
	{
		Text: "Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur. Excepteur sint occaecat cupidatat non proident, sunt in culpa qui officia deserunt mollit anim id est laborum.",
	},
}

// Load wipes the tables and plants a small demo dataset: two authors, two
// groups, one post each.
func Load(db *gorm.DB) {

	err := db.Migrator().DropTable(
		&models.Comment{},
		&models.Post{},
		&models.Follow{},
		&models.Group{},
		&models.User{},
	)
	if err != nil {
		log.Fatalf("cannot drop table: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
	)
	if err != nil {
		log.Fatalf("cannot migrate table: %v", err)
	}

	for i := range users {
		err = db.Model(&models.User{}).Create(&users[i]).Error
		if err != nil {
			log.Fatalf("cannot seed users table: %v", err)
		}

		groups[i].Prepare()
		err = db.Model(&models.Group{}).Create(&groups[i]).Error
		if err != nil {
			log.Fatalf("cannot seed groups table: %v", err)
		}

		posts[i].AuthorID = users[i].ID
		posts[i].GroupID = &groups[i].ID
		err = db.Model(&models.Post{}).Create(&posts[i]).Error
		if err != nil {
			log.Fatalf("cannot seed posts table: %v", err)
		}
	}
}
