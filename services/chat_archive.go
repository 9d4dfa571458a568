package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nivesh_pathshala/models"
)

// MongoDB archive names
const (
	ChatArchiveDBName     = "nivesh_pathshala"
	ChatArchiveCollection = "chat_messages"
)

// ChatArchive mirrors chat history into MongoDB Atlas. The archive is
// optional: when MONGODB_URI is unset every call fails soft and chat
// keeps working from Postgres alone.
type ChatArchive struct {
	client      *mongo.Client
	database    *mongo.Database
	mu          sync.RWMutex
	isConnected bool
	uriSet      bool
	lastError   string
}

// ArchivedChatMessage is the document stored per message.
type ArchivedChatMessage struct {
	MessageID uint      `bson:"message_id"`
	UserID    uint      `bson:"user_id"`
	Phone     string    `bson:"phone"`
	Body      string    `bson:"body"`
	IsAdmin   bool      `bson:"is_admin"`
	CreatedAt time.Time `bson:"created_at"`
}

// Global chat archive instance
var GlobalChatArchive *ChatArchive

// InitChatArchive initializes the archive client.
func InitChatArchive() error {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		log.Println("MONGODB_URI not set, chat archive disabled")
		GlobalChatArchive = &ChatArchive{
			uriSet:    false,
			lastError: "MONGODB_URI environment variable not set",
		}
		return nil
	}

	GlobalChatArchive = &ChatArchive{uriSet: true}
	return GlobalChatArchive.Connect()
}

// Connect establishes the MongoDB Atlas connection.
func (a *ChatArchive) Connect() error {
	mongoURI := os.Getenv("MONGODB_URI")
	if mongoURI == "" {
		a.lastError = "MONGODB_URI environment variable not set"
		return fmt.Errorf("%s", a.lastError)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(mongoURI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1)).
		SetMaxPoolSize(10).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(30 * time.Second).
		SetConnectTimeout(30 * time.Second).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		a.lastError = fmt.Sprintf("Failed to connect: %v", err)
		log.Printf("Failed to connect to MongoDB Atlas: %v", err)
		return err
	}

	if err := client.Ping(ctx, nil); err != nil {
		a.lastError = fmt.Sprintf("Failed to ping: %v", err)
		log.Printf("Failed to ping MongoDB Atlas: %v", err)
		client.Disconnect(ctx)
		return err
	}

	a.mu.Lock()
	a.client = client
	a.database = client.Database(ChatArchiveDBName)
	a.isConnected = true
	a.lastError = ""
	a.mu.Unlock()

	a.createIndexes()

	log.Println("Chat archive connected to MongoDB Atlas")
	return nil
}

// IsConfigured returns whether the archive is connected.
func (a *ChatArchive) IsConfigured() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.isConnected
}

// GetConnectionStatus returns detailed connection status.
func (a *ChatArchive) GetConnectionStatus() map[string]interface{} {
	a.mu.RLock()
	defer a.mu.RUnlock()

	status := map[string]interface{}{
		"uri_set":   a.uriSet,
		"connected": a.isConnected,
	}
	if a.lastError != "" {
		status["error"] = a.lastError
	}
	return status
}

// Close closes the MongoDB connection.
func (a *ChatArchive) Close() error {
	if a.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.client.Disconnect(ctx)
	}
	return nil
}

func (a *ChatArchive) createIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := a.database.Collection(ChatArchiveCollection)
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
}

// ArchiveMessage mirrors one chat message. Failures only log.
func (a *ChatArchive) ArchiveMessage(msg *models.ChatMessage, phone string) {
	if !a.IsConfigured() {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	doc := ArchivedChatMessage{
		MessageID: msg.ID,
		UserID:    msg.UserID,
		Phone:     phone,
		Body:      msg.Body,
		IsAdmin:   msg.IsAdmin,
		CreatedAt: msg.CreatedAt,
	}

	collection := a.database.Collection(ChatArchiveCollection)
	if _, err := collection.InsertOne(ctx, doc); err != nil {
		log.Printf("Warning: failed to archive chat message %d: %v", msg.ID, err)
	}
}

// LoadUserHistory returns archived messages for one user, newest
// first.
func (a *ChatArchive) LoadUserHistory(userID uint, limit int) ([]ArchivedChatMessage, error) {
	if !a.IsConfigured() {
		return nil, fmt.Errorf("chat archive not configured")
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	collection := a.database.Collection(ChatArchiveCollection)
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat archive: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []ArchivedChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode chat archive: %w", err)
	}
	return messages, nil
}

// DeleteOlderThan prunes archived messages past the retention window.
func (a *ChatArchive) DeleteOlderThan(cutoff time.Time) (int64, error) {
	if !a.IsConfigured() {
		return 0, fmt.Errorf("chat archive not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	collection := a.database.Collection(ChatArchiveCollection)
	res, err := collection.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to prune chat archive: %w", err)
	}
	return res.DeletedCount, nil
}
