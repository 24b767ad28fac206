package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/IvanTsarou/GenTS/internal/config"
	"github.com/IvanTsarou/GenTS/internal/exif"
	"github.com/IvanTsarou/GenTS/internal/geo"
	"github.com/IvanTsarou/GenTS/internal/geocode"
	"github.com/IvanTsarou/GenTS/internal/model"
	"github.com/IvanTsarou/GenTS/internal/repository"
	"github.com/IvanTsarou/GenTS/internal/service"
	"github.com/IvanTsarou/GenTS/internal/storage"
	"github.com/IvanTsarou/GenTS/internal/wiki"
	"github.com/IvanTsarou/GenTS/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
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

	// Инициализация репозиториев и сервисов
	userRepo := repository.NewUserRepository(db)
	tripRepo := repository.NewTripRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	storyRepo := repository.NewStoryRepository(db)
	botLogRepo := repository.NewBotLogRepository(db)

	authService := service.NewAuthService(userRepo)
	tripService := service.NewTripService(tripRepo, mediaRepo, reviewRepo, locationRepo)
	geocoder := geocode.NewClient(cfg.NominatimUserAgent)
	locationService := service.NewLocationService(locationRepo, geocoder, wiki.NewClient(), zlog)
	mediaService := service.NewMediaService(mediaRepo, locationService, zlog)
	reviewService := service.NewReviewService(reviewRepo, mediaRepo, locationRepo, zlog)
	structureService := service.NewStructureService(tripRepo, mediaRepo, reviewRepo, locationRepo)
	storyService := service.NewStoryService(storyRepo, structureService, zlog)
	stateService := service.NewStateService()

	store, err := storage.New(cfg.CloudinaryURL)
	if err != nil {
		zlog.Fatal("Не удалось инициализировать хранилище медиа", zap.Error(err))
	}

	if cfg.BotToken == "" {
		zlog.Fatal("Не указан токен бота (TELEGRAM_BOT_TOKEN)")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		zlog.Fatal("Ошибка инициализации бота", zap.Error(err))
	}
	zlog.Info("Запущен бот", zap.String("username", bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}
		msg := update.Message
		chatID := msg.Chat.ID
		isGroup := msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()

		logIncoming(botLogRepo, zlog, msg)

		reply := func(text string) {
			if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
				zlog.Warn("Не удалось отправить ответ", zap.Int64("chat_id", chatID), zap.Error(err))
			}
		}

		// /start доступен всем: регистрация заявки на доступ
		if msg.IsCommand() && msg.Command() == "start" {
			user, created, err := authService.RegisterOrGet(
				msg.From.ID, msg.From.FirstName, msg.From.LastName, msg.From.UserName)
			if err != nil {
				zlog.Error("Ошибка регистрации пользователя", zap.Error(err))
				reply("❌ Ошибка авторизации. Попробуйте позже.")
				continue
			}
			switch {
			case created:
				reply("👋 Добро пожаловать в GenTS - Travel Story Generator!\n\n" +
					"📝 Ваша заявка на доступ отправлена администратору.\n" +
					"Ожидайте подтверждения.")
				notifyAdmins(bot, authService, zlog, fmt.Sprintf(
					"🔔 Новая заявка на доступ: %s (telegram_id %d)", user.DisplayName(), user.TelegramID))
			case !user.IsVerified:
				reply("⏳ Ваша заявка на рассмотрении.\nОжидайте подтверждения от администратора.")
			default:
				reply("👋 С возвращением!\n\n" +
					"📸 Отправьте фото из путешествия\n" +
					"🎤 Запишите голосовое сообщение\n" +
					"✍️ Или напишите текстовый отзыв\n\n" +
					"Команды:\n" +
					"/status - статистика\n" +
					"/locations - список локаций\n" +
					"/place - привязать фото по названию места\n" +
					"/tripnew - новая поездка\n" +
					"/triplist - список поездок\n" +
					"/generate - сгенерировать story\n" +
					"/help - справка")
			}
			continue
		}

		// Остальное принимается только для верифицированных пользователей
		user, err := authService.GetVerified(msg.From.ID)
		if err != nil {
			zlog.Error("Ошибка поиска пользователя", zap.Error(err))
			continue
		}
		if user == nil {
			reply("⛔ У вас нет доступа к боту.\n\nОбратитесь к администратору для получения доступа.")
			continue
		}
		if !user.IsVerified {
			reply("⏳ Ваш аккаунт ожидает верификации.\n\nОбратитесь к администратору.")
			continue
		}

		// Команды
		if msg.IsCommand() {
			switch msg.Command() {
			case "help":
				reply("📖 GenTS - Travel Story Generator\n\n" +
					"📸 Отправьте фото, и бот извлечёт дату и геолокацию из EXIF\n" +
					"🎤 Запишите голосовое, оно будет сохранено как отзыв\n" +
					"✍️ Напишите текст, он добавится к последней локации\n\n" +
					"Команды:\n" +
					"/start - начало работы\n" +
					"/status - статистика поездки\n" +
					"/locations - список локаций\n" +
					"/place <название> - привязать фото по названию места\n" +
					"/tripnew - новая поездка (admin)\n" +
					"/triplist - список поездок\n" +
					"/generate - сгенерировать story\n\n" +
					fmt.Sprintf("Лимиты: %d фото и %d отзыва на локацию от одного пользователя.",
						service.PhotoLimitPerLocation, service.ReviewLimitPerLocation))

			case "status":
				trip, err := tripService.ActiveTrip(chatID, isGroup, user.ID)
				if err != nil || trip == nil {
					reply("📊 Нет активной поездки.\n\nИспользуйте /tripnew для создания.")
					continue
				}
				stats, err := tripService.Stats(trip.ID)
				if err != nil {
					zlog.Error("Ошибка подсчета статистики", zap.Error(err))
					reply("❌ Не удалось получить статистику.")
					continue
				}
				reply(fmt.Sprintf("📊 Статистика поездки \"%s\":\n\n"+
					"📅 Дней: %d\n📍 Локаций: %d\n📸 Фото: %d\n💬 Отзывов: %d",
					trip.Name, stats.Days, stats.Locations, stats.Photos, stats.Reviews))

			case "locations":
				trip, err := tripService.ActiveTrip(chatID, isGroup, user.ID)
				if err != nil || trip == nil {
					reply("📍 Нет активной поездки.")
					continue
				}
				withCounts, err := tripService.LocationsWithCounts(trip.ID)
				if err != nil {
					zlog.Error("Ошибка получения локаций", zap.Error(err))
					reply("❌ Не удалось получить локации.")
					continue
				}
				if len(withCounts) == 0 {
					reply("📍 Пока нет локаций. Отправьте фото с геолокацией!")
					continue
				}
				lines := make([]string, 0, len(withCounts))
				for i, lc := range withCounts {
					place := ""
					if lc.Location.City != nil && lc.Location.Country != nil {
						place = fmt.Sprintf(" (%s, %s)", *lc.Location.City, *lc.Location.Country)
					} else if lc.Location.Country != nil {
						place = fmt.Sprintf(" (%s)", *lc.Location.Country)
					}
					lines = append(lines, fmt.Sprintf("%d. %s%s\n   📸 %d | 💬 %d",
						i+1, lc.Location.DisplayName(), place, lc.Photos, lc.Reviews))
				}
				reply(fmt.Sprintf("📍 Локации поездки \"%s\":\n\n%s", trip.Name, strings.Join(lines, "\n")))

			case "tripnew":
				if !user.IsAdmin {
					reply("⛔ Только администратор может создавать поездки.")
					continue
				}
				name := strings.TrimSpace(msg.CommandArguments())
				if name == "" {
					name = "Поездка " + time.Now().Format("02.01.2006")
				}
				var groupID *int64
				if isGroup {
					groupID = &chatID
				}
				trip, err := tripService.CreateTrip(name, user.ID, groupID)
				if err != nil {
					zlog.Error("Ошибка создания поездки", zap.Error(err))
					reply("❌ Ошибка создания поездки.")
					continue
				}
				reply(fmt.Sprintf("✅ Поездка \"%s\" создана!\n\nТеперь можно отправлять фото и отзывы.", trip.Name))

			case "triplist":
				trips, err := tripService.ListTrips(chatID, isGroup, user.ID)
				if err != nil {
					zlog.Error("Ошибка получения поездок", zap.Error(err))
					reply("❌ Не удалось получить поездки.")
					continue
				}
				if len(trips) == 0 {
					reply("📋 Нет поездок.\n\nИспользуйте /tripnew [название] для создания.")
					continue
				}
				lines := make([]string, 0, len(trips))
				for i, trip := range trips {
					marker := "⚪"
					if trip.Status == model.TripStatusActive {
						marker = "🟢"
					}
					lines = append(lines, fmt.Sprintf("%d. %s %s", i+1, marker, trip.Name))
				}
				reply("📋 Ваши поездки:\n\n" + strings.Join(lines, "\n"))

			case "place":
				query := strings.TrimSpace(msg.CommandArguments())
				if query == "" {
					reply("Использование: /place <название места>\n\nПример: /place Эйфелева башня")
					continue
				}
				trip, err := tripService.ActiveTrip(chatID, isGroup, user.ID)
				if err != nil || trip == nil {
					reply("❌ Нет активной поездки.")
					continue
				}
				point, err := geocoder.SearchPlace(context.Background(), query)
				if err != nil {
					zlog.Error("Ошибка поиска места", zap.String("query", query), zap.Error(err))
					reply("❌ Ошибка поиска места. Попробуйте позже.")
					continue
				}
				if point == nil {
					reply(fmt.Sprintf("🔍 Место \"%s\" не найдено. Уточните запрос или отправьте геопозицию.", query))
					continue
				}
				result, err := mediaService.AttachGeolocation(context.Background(), trip.ID, user.ID, *point)
				if err != nil {
					zlog.Error("Ошибка привязки по названию места", zap.Error(err))
					reply("❌ Ошибка привязки фото.")
					continue
				}
				stateService.ClearAwaitingLocation(user.TelegramID)
				if result.Attached == 0 {
					reply("📍 Место найдено, но нет фото без привязки.\n\nСначала отправьте фото, затем /place.")
					continue
				}
				reply(fmt.Sprintf("✅ Фото привязаны по названию места!\n\n📍 %s\n📸 Привязано фото: %d",
					result.Location.DisplayName(), result.Attached))

			case "generate":
				trip, err := tripService.ActiveTrip(chatID, isGroup, user.ID)
				if err != nil || trip == nil {
					reply("❌ Нет активной поездки для генерации.")
					continue
				}
				if _, err := storyService.QueueGeneration(trip.ID); err != nil {
					zlog.Error("Ошибка постановки story в очередь", zap.Error(err))
					reply("❌ Не удалось поставить story в очередь.")
					continue
				}
				reply("🚧 Story поставлена в очередь.\n\nГенерация текста пока выполняется вручную при обработке поездки.")

			default:
				reply("Неизвестная команда. /help - справка.")
			}
			continue
		}

		// Активная поездка нужна для любого контента
		trip, err := tripService.ActiveTrip(chatID, isGroup, user.ID)
		if err != nil {
			zlog.Error("Ошибка поиска активной поездки", zap.Error(err))
			continue
		}
		if trip == nil {
			reply("❌ Нет активной поездки.\n\nПопросите администратора создать поездку командой /tripnew [название].")
			continue
		}

		ctx := context.Background()

		switch {
		// Фото
		case len(msg.Photo) > 0:
			largest := msg.Photo[len(msg.Photo)-1]
			reply("📸 Обрабатываю фото...")

			data, err := downloadFile(bot, largest.FileID)
			if err != nil {
				zlog.Error("Ошибка скачивания фото", zap.Error(err))
				reply("❌ Ошибка обработки фото. Попробуйте ещё раз.")
				continue
			}

			meta := exif.Extract(data)

			fileURL, thumbnailURL, err := store.UploadPhoto(ctx, data, trip.ID, uuid.NewString())
			if err != nil {
				zlog.Error("Ошибка загрузки фото в хранилище", zap.Error(err))
				reply("❌ Ошибка загрузки фото. Попробуйте ещё раз.")
				continue
			}

			result, err := mediaService.SaveMedia(ctx, service.SaveMediaInput{
				TripID:         trip.ID,
				UserID:         user.ID,
				TelegramFileID: largest.FileID,
				FileURL:        fileURL,
				ThumbnailURL:   &thumbnailURL,
				ShotAt:         meta.ShotAt,
				Coordinates:    meta.Coordinates,
				Caption:        captionOf(msg),
			})
			if err != nil {
				zlog.Error("Ошибка сохранения фото", zap.Error(err))
				reply("❌ Ошибка обработки фото. Попробуйте ещё раз.")
				continue
			}

			switch {
			case result.NeedsGeolocation:
				stateService.MarkAwaitingLocation(user.TelegramID)
				reply(fmt.Sprintf("📍 Фото сохранено, но без геолокации.\n\n"+
					"Отправьте геолокацию (📎 → Геопозиция), чтобы привязать фото к месту.\n"+
					"Ожидают геолокацию: %d.", stateService.AwaitingLocation(user.TelegramID)))
			case result.LimitReached:
				reply(fmt.Sprintf("⚠️ Достигнут лимит %d фото на эту локацию.\n\n"+
					"Фото сохранено без привязки к локации.", service.PhotoLimitPerLocation))
			default:
				reply(savedMediaMessage("✅ Фото сохранено!", result, msg.Caption))
			}

		// Видео и видеозаметки
		case msg.Video != nil || msg.VideoNote != nil:
			fileID := ""
			if msg.Video != nil {
				fileID = msg.Video.FileID
			} else {
				fileID = msg.VideoNote.FileID
			}
			reply("🎬 Обрабатываю видео...")

			data, err := downloadFile(bot, fileID)
			if err != nil {
				zlog.Error("Ошибка скачивания видео", zap.Error(err))
				reply("❌ Ошибка обработки видео. Попробуйте ещё раз.")
				continue
			}

			meta := exif.Extract(data) // у видео обычно пусто

			fileURL, err := store.UploadVideo(ctx, data, trip.ID, uuid.NewString())
			if err != nil {
				zlog.Error("Ошибка загрузки видео в хранилище", zap.Error(err))
				reply("❌ Ошибка загрузки видео. Попробуйте ещё раз.")
				continue
			}

			result, err := mediaService.SaveMedia(ctx, service.SaveMediaInput{
				TripID:         trip.ID,
				UserID:         user.ID,
				TelegramFileID: fileID,
				FileURL:        fileURL,
				ShotAt:         meta.ShotAt,
				Coordinates:    meta.Coordinates,
				Caption:        captionOf(msg),
			})
			if err != nil {
				zlog.Error("Ошибка сохранения видео", zap.Error(err))
				reply("❌ Ошибка обработки видео. Попробуйте ещё раз.")
				continue
			}

			switch {
			case result.NeedsGeolocation:
				stateService.MarkAwaitingLocation(user.TelegramID)
				reply("🎬 Видео сохранено, но без геолокации.\n\n" +
					"Отправьте геолокацию (📎 → Геопозиция), чтобы привязать к месту.")
			case result.LimitReached:
				reply(fmt.Sprintf("⚠️ Достигнут лимит %d видео на эту локацию.\n\n"+
					"Видео сохранено без привязки к локации.", service.PhotoLimitPerLocation))
			default:
				reply(savedMediaMessage("✅ Видео сохранено!", result, msg.Caption))
			}

		// Файлы-вложения: несжатые фото и видео. Telegram не пережимает
		// документы, поэтому это единственный путь, где EXIF доходит целиком
		case msg.Document != nil:
			doc := msg.Document
			kind := documentKind(doc.MimeType)
			if kind == "" {
				reply("📎 Файлы этого типа не поддерживаются.\n\nОтправьте фото или видео (можно файлом, чтобы сохранить EXIF).")
				continue
			}
			if kind == documentVideo && doc.FileSize > maxDocumentBytes {
				reply("⚠️ Видео больше 20 МБ: Telegram не отдает такие файлы ботам.\n\nОтправьте видео покороче или сжатым.")
				continue
			}
			reply("📎 Обрабатываю файл...")

			data, err := downloadFile(bot, doc.FileID)
			if err != nil {
				zlog.Error("Ошибка скачивания файла", zap.String("file_name", doc.FileName), zap.Error(err))
				reply("❌ Ошибка обработки файла. Попробуйте ещё раз.")
				continue
			}

			meta := exif.Extract(data)

			var fileURL string
			var thumbnailURL *string
			if kind == documentImage {
				var thumb string
				fileURL, thumb, err = store.UploadPhoto(ctx, data, trip.ID, uuid.NewString())
				if err == nil {
					thumbnailURL = &thumb
				}
			} else {
				fileURL, err = store.UploadVideo(ctx, data, trip.ID, uuid.NewString())
			}
			if err != nil {
				zlog.Error("Ошибка загрузки файла в хранилище", zap.Error(err))
				reply("❌ Ошибка загрузки файла. Попробуйте ещё раз.")
				continue
			}

			result, err := mediaService.SaveMedia(ctx, service.SaveMediaInput{
				TripID:         trip.ID,
				UserID:         user.ID,
				TelegramFileID: doc.FileID,
				FileURL:        fileURL,
				ThumbnailURL:   thumbnailURL,
				ShotAt:         meta.ShotAt,
				Coordinates:    meta.Coordinates,
				Caption:        captionOf(msg),
			})
			if err != nil {
				zlog.Error("Ошибка сохранения файла", zap.Error(err))
				reply("❌ Ошибка обработки файла. Попробуйте ещё раз.")
				continue
			}

			switch {
			case result.NeedsGeolocation:
				stateService.MarkAwaitingLocation(user.TelegramID)
				reply("📍 Файл сохранен, но в нем нет геолокации.\n\n" +
					"Отправьте геолокацию (📎 → Геопозиция), чтобы привязать к месту.")
			case result.LimitReached:
				reply(fmt.Sprintf("⚠️ Достигнут лимит %d фото на эту локацию.\n\n"+
					"Файл сохранен без привязки к локации.", service.PhotoLimitPerLocation))
			default:
				reply(savedMediaMessage("✅ Файл сохранен!", result, msg.Caption))
			}

		// Голосовые сообщения
		case msg.Voice != nil || msg.Audio != nil:
			fileID := ""
			mimeType := "audio/ogg"
			if msg.Voice != nil {
				fileID = msg.Voice.FileID
				if msg.Voice.MimeType != "" {
					mimeType = msg.Voice.MimeType
				}
			} else {
				fileID = msg.Audio.FileID
				if msg.Audio.MimeType != "" {
					mimeType = msg.Audio.MimeType
				}
			}
			reply("🎤 Обрабатываю аудио...")

			data, err := downloadFile(bot, fileID)
			if err != nil {
				zlog.Error("Ошибка скачивания аудио", zap.Error(err))
				reply("❌ Ошибка обработки аудио. Попробуйте ещё раз.")
				continue
			}

			audioURL, err := store.UploadAudio(ctx, data, trip.ID, uuid.NewString(), mimeType)
			if err != nil {
				zlog.Error("Ошибка загрузки аудио в хранилище", zap.Error(err))
				reply("❌ Ошибка загрузки аудио. Попробуйте ещё раз.")
				continue
			}

			result, err := reviewService.SaveVoiceReview(trip.ID, user.ID, audioURL, replyPhotoFileID(msg))
			if err != nil {
				zlog.Error("Ошибка сохранения голосового отзыва", zap.Error(err))
				reply("❌ Ошибка сохранения отзыва. Попробуйте ещё раз.")
				continue
			}
			if result.LimitReached {
				reply(fmt.Sprintf("⚠️ Достигнут лимит %d отзывов на эту локацию.", service.ReviewLimitPerLocation))
				continue
			}
			locationName := "без привязки к локации"
			if result.Location != nil {
				locationName = result.Location.DisplayName()
			}
			reply(fmt.Sprintf("✅ Голосовое сообщение сохранено!\n\n📍 %s\n\n"+
				"ℹ️ Транскрипция будет выполнена при обработке поездки.", locationName))

		// Геопозиция: бэкфилл непривязанных медиа
		case msg.Location != nil:
			point := geo.Coordinates{Lat: msg.Location.Latitude, Lng: msg.Location.Longitude}
			result, err := mediaService.AttachGeolocation(ctx, trip.ID, user.ID, point)
			if err != nil {
				zlog.Error("Ошибка привязки геолокации", zap.Error(err))
				reply("❌ Ошибка обработки геолокации.")
				continue
			}
			stateService.ClearAwaitingLocation(user.TelegramID)
			if result.Attached == 0 {
				reply("📍 Геолокация получена, но нет фото без привязки.\n\n" +
					"Сначала отправьте фото, затем геолокацию.")
				continue
			}
			reply(fmt.Sprintf("✅ Геолокация привязана!\n\n📍 %s\n📸 Привязано фото: %d",
				result.Location.DisplayName(), result.Attached))

		// Текстовый отзыв
		case msg.Text != "":
			result, err := reviewService.SaveTextReview(trip.ID, user.ID, msg.Text, replyPhotoFileID(msg))
			if err != nil {
				zlog.Error("Ошибка сохранения отзыва", zap.Error(err))
				reply("❌ Ошибка сохранения отзыва. Попробуйте ещё раз.")
				continue
			}
			if result.LimitReached {
				reply(fmt.Sprintf("⚠️ Достигнут лимит %d отзывов на локацию \"%s\".",
					service.ReviewLimitPerLocation, result.Location.DisplayName()))
				continue
			}
			locationName := "день поездки"
			if result.Location != nil {
				locationName = result.Location.DisplayName()
			}
			reply(fmt.Sprintf("✅ Отзыв сохранён!\n\n📍 Привязан к: %s", locationName))
		}
	}
}

const (
	documentImage = "image"
	documentVideo = "video"

	// Лимит Bot API на скачивание файлов
	maxDocumentBytes = 20 * 1024 * 1024
)

// documentKind определяет по MIME-типу, как обрабатывать файл-вложение.
// Пустая строка: тип не поддерживается.
func documentKind(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return documentImage
	case strings.HasPrefix(mimeType, "video/"):
		return documentVideo
	default:
		return ""
	}
}

// downloadFile скачивает файл с серверов Telegram.
func downloadFile(bot *tgbotapi.BotAPI, fileID string) ([]byte, error) {
	file, err := bot.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("не удалось получить файл: %w", err)
	}
	resp, err := http.Get(file.Link(bot.Token))
	if err != nil {
		return nil, fmt.Errorf("не удалось скачать файл: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Telegram вернул статус %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// replyPhotoFileID возвращает FileID фото, на которое отвечает сообщение.
func replyPhotoFileID(msg *tgbotapi.Message) string {
	if msg.ReplyToMessage == nil || len(msg.ReplyToMessage.Photo) == 0 {
		return ""
	}
	photos := msg.ReplyToMessage.Photo
	return photos[len(photos)-1].FileID
}

func captionOf(msg *tgbotapi.Message) *string {
	if msg.Caption == "" {
		return nil
	}
	caption := msg.Caption
	return &caption
}

// savedMediaMessage собирает ответ об успешном сохранении медиа.
func savedMediaMessage(header string, result *service.SaveMediaResult, caption string) string {
	locationName := "новая локация"
	if result.Location != nil {
		locationName = result.Location.DisplayName()
	}
	dateStr := "дата неизвестна"
	if result.Media.ShotAt != nil {
		dateStr = result.Media.ShotAt.Format("02.01.2006")
	}
	text := fmt.Sprintf("%s\n\n📍 %s\n📅 %s", header, locationName, dateStr)
	if caption != "" {
		text += fmt.Sprintf("\n💬 \"%s\"", caption)
	}
	return text
}

// logIncoming пишет входящее сообщение в журнал бота (без бинарных данных).
func logIncoming(repo *repository.BotLogRepository, zlog *zap.Logger, msg *tgbotapi.Message) {
	text := msg.Text
	if len(text) > 100 {
		text = text[:100]
	}
	payload, err := json.Marshal(map[string]interface{}{
		"message_id": msg.MessageID,
		"text":       text,
		"chat_type":  msg.Chat.Type,
	})
	if err != nil {
		return
	}
	userID := msg.From.ID
	chatID := msg.Chat.ID
	messageType := classifyMessage(msg)
	entry := &model.BotLog{
		TelegramUserID: &userID,
		ChatID:         &chatID,
		MessageType:    &messageType,
		Payload:        payload,
	}
	if err := repo.Save(entry); err != nil {
		zlog.Warn("Не удалось записать журнал бота", zap.Error(err))
	}
}

func classifyMessage(msg *tgbotapi.Message) string {
	switch {
	case len(msg.Photo) > 0:
		return model.MessageTypePhoto
	case msg.Voice != nil:
		return model.MessageTypeVoice
	case msg.Audio != nil:
		return model.MessageTypeAudio
	case msg.Video != nil || msg.VideoNote != nil:
		return model.MessageTypeVideo
	case msg.Document != nil:
		return model.MessageTypeDocument
	case msg.Location != nil:
		return model.MessageTypeLocation
	case msg.IsCommand():
		return model.MessageTypeCommand
	case msg.Text != "":
		return model.MessageTypeText
	default:
		return model.MessageTypeUnknown
	}
}

// notifyAdmins рассылает уведомление администраторам.
func notifyAdmins(bot *tgbotapi.BotAPI, auth *service.AuthService, zlog *zap.Logger, text string) {
	ids, err := auth.AdminTelegramIDs()
	if err != nil {
		zlog.Warn("Не удалось получить список администраторов", zap.Error(err))
		return
	}
	for _, id := range ids {
		if _, err := bot.Send(tgbotapi.NewMessage(id, text)); err != nil {
			zlog.Warn("Не удалось уведомить администратора", zap.Int64("telegram_id", id), zap.Error(err))
		}
	}
}
