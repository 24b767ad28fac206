package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/IvanTsarou/GenTS/internal/config"
	"github.com/IvanTsarou/GenTS/internal/repository"
	"github.com/IvanTsarou/GenTS/internal/service"
	"github.com/IvanTsarou/GenTS/pkg/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// Административный бот: верификация заявок и рассылка объявлений.
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

	userService := service.NewUserService(repository.NewUserRepository(db))
	botLogRepo := repository.NewBotLogRepository(db)

	if cfg.AdminBotToken == "" {
		zlog.Fatal("Не указан токен административного бота (ADMIN_BOT_TOKEN)")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.AdminBotToken)
	if err != nil {
		zlog.Fatal("Ошибка инициализации административного бота", zap.Error(err))
	}

	// Рассылка пользователям идет через основного бота: именно с ним
	// они переписываются.
	var mainBot *tgbotapi.BotAPI
	if cfg.BotToken != "" {
		mainBot, err = tgbotapi.NewBotAPI(cfg.BotToken)
		if err != nil {
			zlog.Warn("Основной бот недоступен, /broadcast отключен", zap.Error(err))
			mainBot = nil
		}
	}

	zlog.Info("Запущен административный бот", zap.String("username", bot.Self.UserName))

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}
		msg := update.Message
		chatID := msg.Chat.ID

		reply := func(text string) {
			if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
				zlog.Warn("Не удалось отправить ответ", zap.Int64("chat_id", chatID), zap.Error(err))
			}
		}

		admin, err := userService.GetByTelegramID(msg.From.ID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			zlog.Error("Ошибка поиска пользователя", zap.Error(err))
			continue
		}
		if admin == nil || !admin.IsAdmin {
			reply("⛔ Доступ только для администраторов.")
			continue
		}

		args := strings.TrimSpace(msg.CommandArguments())

		switch msg.Command() {
		case "start", "help":
			reply("🛠 Административный бот GenTS\n\n" +
				"/pending - заявки на доступ\n" +
				"/verify <id> - подтвердить пользователя\n" +
				"/reject <id> - отклонить пользователя\n" +
				"/makeadmin <id> - выдать права администратора\n" +
				"/log <telegram_id> - последние сообщения пользователя\n" +
				"/broadcast <текст> - рассылка верифицированным пользователям")

		case "pending":
			users, err := userService.List(true)
			if err != nil {
				zlog.Error("Ошибка получения заявок", zap.Error(err))
				reply("❌ Не удалось получить заявки.")
				continue
			}
			if len(users) == 0 {
				reply("✅ Нет заявок на рассмотрении.")
				continue
			}
			lines := make([]string, 0, len(users))
			for i, user := range users {
				lines = append(lines, fmt.Sprintf("%d. %s (telegram_id %d)\n   id: %s",
					i+1, user.DisplayName(), user.TelegramID, user.ID))
			}
			reply("📝 Заявки на доступ:\n\n" + strings.Join(lines, "\n") +
				"\n\n/verify <id> - подтвердить, /reject <id> - отклонить")

		case "verify":
			if args == "" {
				reply("Использование: /verify <id>")
				continue
			}
			user, err := userService.GetByID(args)
			if err != nil || user == nil {
				reply("❌ Пользователь не найден.")
				continue
			}
			if err := userService.SetVerified(user.ID, true); err != nil {
				zlog.Error("Ошибка верификации пользователя", zap.Error(err))
				reply("❌ Не удалось подтвердить пользователя.")
				continue
			}
			reply(fmt.Sprintf("✅ Пользователь %s подтвержден.", user.DisplayName()))
			if mainBot != nil {
				notice := tgbotapi.NewMessage(user.TelegramID,
					"✅ Ваша заявка одобрена! Отправьте /start, чтобы начать.")
				if _, err := mainBot.Send(notice); err != nil {
					zlog.Warn("Не удалось уведомить пользователя", zap.Error(err))
				}
			}

		case "reject":
			if args == "" {
				reply("Использование: /reject <id>")
				continue
			}
			user, err := userService.GetByID(args)
			if err != nil || user == nil {
				reply("❌ Пользователь не найден.")
				continue
			}
			if err := userService.SetVerified(user.ID, false); err != nil {
				zlog.Error("Ошибка отклонения заявки", zap.Error(err))
				reply("❌ Не удалось отклонить заявку.")
				continue
			}
			reply(fmt.Sprintf("🚫 Заявка пользователя %s отклонена.", user.DisplayName()))

		case "makeadmin":
			if args == "" {
				reply("Использование: /makeadmin <id>")
				continue
			}
			user, err := userService.GetByID(args)
			if err != nil || user == nil {
				reply("❌ Пользователь не найден.")
				continue
			}
			if err := userService.SetAdmin(user.ID, true); err != nil {
				zlog.Error("Ошибка выдачи прав администратора", zap.Error(err))
				reply("❌ Не удалось выдать права.")
				continue
			}
			reply(fmt.Sprintf("👑 Пользователь %s теперь администратор.", user.DisplayName()))

		case "log":
			if args == "" {
				reply("Использование: /log <telegram_id>")
				continue
			}
			telegramID, err := strconv.ParseInt(args, 10, 64)
			if err != nil {
				reply("❌ Некорректный telegram_id.")
				continue
			}
			entries, err := botLogRepo.ListByUser(telegramID, 10)
			if err != nil {
				zlog.Error("Ошибка чтения журнала", zap.Error(err))
				reply("❌ Не удалось получить журнал.")
				continue
			}
			if len(entries) == 0 {
				reply("📭 Журнал пользователя пуст.")
				continue
			}
			lines := make([]string, 0, len(entries))
			for _, entry := range entries {
				messageType := "unknown"
				if entry.MessageType != nil {
					messageType = *entry.MessageType
				}
				lines = append(lines, fmt.Sprintf("%s  %s",
					entry.CreatedAt.Format("02.01 15:04"), messageType))
			}
			reply(fmt.Sprintf("📜 Последние сообщения пользователя %d:\n\n%s",
				telegramID, strings.Join(lines, "\n")))

		case "broadcast":
			if args == "" {
				reply("Использование: /broadcast <текст>")
				continue
			}
			if mainBot == nil {
				reply("❌ Основной бот недоступен, рассылка невозможна.")
				continue
			}
			ids, err := userService.VerifiedTelegramIDs()
			if err != nil {
				zlog.Error("Ошибка получения получателей рассылки", zap.Error(err))
				reply("❌ Не удалось получить список получателей.")
				continue
			}
			sent := 0
			for _, id := range ids {
				if _, err := mainBot.Send(tgbotapi.NewMessage(id, "📢 "+args)); err != nil {
					zlog.Warn("Не удалось доставить сообщение", zap.Int64("telegram_id", id), zap.Error(err))
					continue
				}
				sent++
			}
			reply(fmt.Sprintf("📢 Рассылка отправлена: %d из %d.", sent, len(ids)))

		default:
			reply("Неизвестная команда. /help - справка.")
		}
	}
}
