package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/IvanTsarou/GenTS/internal/config"
	"github.com/IvanTsarou/GenTS/internal/geocode"
	"github.com/IvanTsarou/GenTS/internal/handler"
	"github.com/IvanTsarou/GenTS/internal/repository"
	"github.com/IvanTsarou/GenTS/internal/service"
	"github.com/IvanTsarou/GenTS/internal/wiki"
	"github.com/IvanTsarou/GenTS/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL драйвер
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка чтения конфигурации: %v", err)
	}

	zlog := logger.New(cfg.LoggerLevel, cfg.LoggerFormat)
	defer zlog.Sync()

	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		zlog.Fatal("Не удалось подключиться к базе данных", zap.Error(err))
	}

	// Выполняем миграции (если есть)
	applyMigrations(db, zlog)

	// Инициализируем репозитории
	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	storyRepo := repository.NewStoryRepository(db)

	// Инициализируем сервисы
	userService := service.NewUserService(userRepo)
	tripService := service.NewTripService(tripRepo, mediaRepo, reviewRepo, locationRepo)
	locationService := service.NewLocationService(
		locationRepo, geocode.NewClient(cfg.NominatimUserAgent), wiki.NewClient(), zlog)
	structureService := service.NewStructureService(tripRepo, mediaRepo, reviewRepo, locationRepo)
	storyService := service.NewStoryService(storyRepo, structureService, zlog)

	// Создаем Handler и регистрируем маршруты
	h := handler.NewHandler(tripService, locationService, structureService, storyService, userService)
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	h.Register(router)

	zlog.Info("Запуск API", zap.String("port", cfg.APIPort))
	if err := router.Run(":" + cfg.APIPort); err != nil {
		zlog.Fatal("Ошибка запуска сервера", zap.Error(err))
	}
}

// applyMigrations применяет файлы migrations/*.sql в порядке имен.
func applyMigrations(db *sqlx.DB, zlog *zap.Logger) {
	files, err := filepath.Glob("migrations/*.sql")
	if err != nil {
		return
	}
	for _, file := range files {
		content, err := os.ReadFile(file)
		if err != nil {
			zlog.Warn("Не удалось прочитать миграцию", zap.String("file", file), zap.Error(err))
			continue
		}
		if _, err := db.Exec(string(content)); err != nil {
			zlog.Warn("Миграция завершилась ошибкой", zap.String("file", file), zap.Error(err))
		} else {
			zlog.Info("Миграция применена", zap.String("file", file))
		}
	}
}
