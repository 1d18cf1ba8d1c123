package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	BaseURL      string
	DatabaseDSN  string
	AccessSecret string

	KafkaBroker   string
	KafkaTopic    string
	KafkaGroupID  string
	KafkaUsername string
	KafkaPassword string

	CloudinaryUrl string

	// bootstrap admin คนแรก (optional)
	AdminEmail    string
	AdminPassword string

	// Telegram notification targets. สร้างเป็น struct ชัดเจนตั้งแต่ boot
	// ห้ามอ่าน env ใน business logic
	Telegram TelegramConfig
}

type TelegramConfig struct {
	BotToken       string
	GroupChatID    int64   // แจ้งเข้ากลุ่ม staff ถ้าตั้งไว้
	StaffChatIDs   []int64 // หรือรายคน
	FallbackChatID int64
}

// Enabled reports whether notifications can be attempted at all.
func (t TelegramConfig) Enabled() bool {
	return strings.TrimSpace(t.BotToken) != ""
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	return Config{
		ServerPort:   os.Getenv("SERVER_PORT"),
		BaseURL:      os.Getenv("BASE_URL"),
		DatabaseDSN:  os.Getenv("DATABASE_DSN"),
		AccessSecret: os.Getenv("ACCESS_SECRET"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaGroupID:  os.Getenv("KAFKA_GROUP_ID"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		CloudinaryUrl: os.Getenv("CLOUDINARY_URL"),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Telegram: TelegramConfig{
			BotToken:       os.Getenv("TELEGRAM_BOT_TOKEN"),
			GroupChatID:    parseChatID(os.Getenv("TELEGRAM_GROUP_CHAT_ID")),
			StaffChatIDs:   parseChatIDs(os.Getenv("TELEGRAM_STAFF_CHAT_IDS")),
			FallbackChatID: parseChatID(os.Getenv("TELEGRAM_FALLBACK_CHAT_ID")),
		},
	}
}

func parseChatID(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Printf("Warning: invalid telegram chat id %q: %v", s, err)
		return 0
	}
	return id
}

// parseChatIDs: comma separated เช่น "123,456"
func parseChatIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		if id := parseChatID(part); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
