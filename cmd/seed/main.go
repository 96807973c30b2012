package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"online-panthi/pkg/cache"
	"online-panthi/pkg/config"
	"online-panthi/pkg/database"
	"online-panthi/pkg/logger"
	"online-panthi/pkg/models"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seedCourse struct {
	course models.Course
	topics []seedTopic
}

type seedTopic struct {
	title     string
	videos    []models.Video
	resources []models.Resource
}

func main() {
	var password string
	flag.StringVar(&password, "password", "password123", "Password for seeded demo users")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Warn("Redis unavailable, cached catalog and feed will expire on their own: %v", err)
		redisClient = nil
	}

	if err := seedDatabase(db, password, log); err != nil {
		log.Error("Failed to seed database: %v", err)
		panic(err)
	}

	if redisClient != nil {
		flushCaches(redisClient, log)
	}

	log.Info("Database seeded successfully!")
}

func seedDatabase(db *gorm.DB, password string, log *logger.Logger) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := []models.User{
		{Email: "nimal@test.lk", FullName: "Nimal Perera", Country: models.DefaultCountry},
		{Email: "ayesha@test.lk", FullName: "Ayesha Fernando", Country: models.DefaultCountry},
		{Email: "ravi@test.in", FullName: "Ravi Kumar", Country: "India"},
	}

	userIDs := make([]string, 0, len(users))
	for i := range users {
		user := users[i]
		user.PasswordHash = string(hashed)

		var existing models.User
		if err := db.Where("email = ?", user.Email).First(&existing).Error; err == nil {
			log.Info("User %s already exists, skipping", user.Email)
			userIDs = append(userIDs, existing.ID)
			continue
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&models.Profile{ID: user.ID, FullName: user.FullName, Country: user.Country}).Error
		})
		if err != nil {
			log.Error("Failed to create user %s: %v", user.Email, err)
			continue
		}

		log.Info("Created user: %s (%s)", user.FullName, user.Email)
		userIDs = append(userIDs, user.ID)
	}

	for _, sc := range demoCourses() {
		var count int64
		db.Model(&models.Course{}).Where("name = ?", sc.course.Name).Count(&count)
		if count > 0 {
			log.Info("Course %s already exists, skipping", sc.course.Name)
			continue
		}
		if err := createCourse(db, sc); err != nil {
			log.Error("Failed to create course %s: %v", sc.course.Name, err)
			continue
		}
		log.Info("Created course: %s", sc.course.Name)
	}

	var posts int64
	db.Model(&models.Post{}).Count(&posts)
	if posts == 0 && len(userIDs) > 0 {
		contents := []string{
			"Anyone have good notes for A/L Combined Maths vectors? 📐",
			"Just finished the ICT networking topic, the subnetting video helped a lot!",
			"Study group for Biology this Saturday, who's in?",
		}
		for i, content := range contents {
			post := &models.Post{
				AuthorID:  userIDs[i%len(userIDs)],
				Content:   content,
				CreatedAt: time.Now().Add(-time.Duration(len(contents)-i) * time.Hour),
			}
			if err := db.Create(post).Error; err != nil {
				log.Error("Failed to create post: %v", err)
				continue
			}
		}
		log.Info("Created %d community posts", len(contents))
	}

	return nil
}

func createCourse(db *gorm.DB, sc seedCourse) error {
	return db.Transaction(func(tx *gorm.DB) error {
		course := sc.course
		if err := tx.Create(&course).Error; err != nil {
			return err
		}
		for i, st := range sc.topics {
			topic := models.Topic{CourseID: course.ID, Title: st.title, OrderIndex: i}
			if err := tx.Create(&topic).Error; err != nil {
				return err
			}
			for j := range st.videos {
				video := st.videos[j]
				video.TopicID = topic.ID
				video.OrderIndex = j
				if err := tx.Create(&video).Error; err != nil {
					return err
				}
			}
			for j := range st.resources {
				resource := st.resources[j]
				resource.TopicID = topic.ID
				if err := tx.Create(&resource).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func demoCourses() []seedCourse {
	minutes := func(n int) *int { return &n }

	return []seedCourse{
		{
			course: models.Course{
				Name:             "A/L Combined Maths",
				Description:      "Vectors, calculus and statics for the Advanced Level syllabus.",
				Category:         "Math",
				Level:            "Advanced",
				InstructorName:   "Mr. Silva",
				Stream:           "Maths",
				Language:         "English",
				Rate:             4.7,
				StudentsEnrolled: 1200,
				Recommended:      true,
			},
			topics: []seedTopic{
				{
					title: "Vectors",
					videos: []models.Video{
						{Title: "Introduction to vectors", VideoURL: "https://youtu.be/fNk_zzaMoSs", Duration: minutes(14), IsFree: true},
						{Title: "Dot product", VideoURL: "https://www.youtube.com/watch?v=LyGKycYT2v0", Duration: minutes(11), IsFree: true},
					},
					resources: []models.Resource{{Name: "Vector worksheet", FileURL: "https://example.com/vectors.pdf"}},
				},
				{
					title:  "Differentiation",
					videos: []models.Video{{Title: "Limits and derivatives", VideoURL: "https://www.youtube.com/shorts/WUvTyaaNkzM", IsFree: false}},
				},
			},
		},
		{
			course: models.Course{
				Name:             "O/L ICT Essentials",
				Description:      "Computer systems, networking and programming basics.",
				Category:         "ICT",
				Level:            "Ordinary",
				InstructorName:   "Ms. Jayasinghe",
				Stream:           "Technology",
				Language:         "Sri Lanka",
				Rate:             4.3,
				StudentsEnrolled: 860,
			},
			topics: []seedTopic{
				{
					title:     "Networking",
					videos:    []models.Video{{Title: "What is a network?", VideoURL: "https://youtu.be/3QhU9jd03a0", IsFree: true}},
					resources: []models.Resource{{Name: "Past paper questions", FileURL: "https://example.com/ict-networking.pdf"}},
				},
			},
		},
		{
			course: models.Course{
				Name:             "Accounting for Beginners",
				Description:      "Double entry, ledgers and trial balances.",
				Category:         "Commerce",
				Level:            "Beginner",
				InstructorName:   "Mr. Rajapaksha",
				Stream:           "Commerce",
				Language:         "English",
				IsPaid:           true,
				Rate:             4.9,
				StudentsEnrolled: 310,
			},
		},
	}
}

func flushCaches(redisClient *redis.Client, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Del(ctx, "courses:catalog", "community:feed").Err(); err != nil {
		log.Warn("Failed to flush caches: %v", err)
	}
}
