package main

import (
	"log"
	"net/http"
	"os"

	"campuslink_server/bus"
	"campuslink_server/groupstore"
	"campuslink_server/middleware"
	"campuslink_server/routes"
	"campuslink_server/services"
	"campuslink_server/socket"
	"campuslink_server/storage"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/gorilla/mux"
)

func main() {
	// Initialize DynamoDB client and service
	log.Println("Initializing DynamoDB client...")
	dynamoClient := services.InitializeDynamoDBClient()
	dynamoService := &services.DynamoService{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	// Initialize Services
	userProfileService := &services.UserProfileService{Dynamo: dynamoService}
	buddyService := &services.BuddyService{Dynamo: dynamoService}

	// Snapshot storage and change-notification channel. With no Redis or
	// NATS configured the store runs fully in-process (demo mode).
	kv, changeBus := buildSnapshotBackends()
	groupStore := groupstore.New(kv, changeBus)
	defer groupStore.Close()

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	auth := mux.MiddlewareFunc(middleware.RequireAuth([]byte(secret)))

	// Set up the server port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Using server port: %s\n", port)

	// Initialize the router
	r := mux.NewRouter()

	// Register routes
	routes.RegisterRoutes(r)
	routes.RegisterUserProfileRoutes(r, userProfileService, auth)
	routes.RegisterBuddyRoutes(r, buddyService, auth)
	routes.RegisterGroupRoutes(r, groupStore, auth)
	routes.RegisterAvatarRoutes(r)

	// Socket.IO server for live group updates
	socketServer := socket.NewSocketServer(changeBus)
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Printf("Socket server error: %v", err)
		}
	}()
	defer socketServer.Close()
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, corsHandler))
}

// buildSnapshotBackends picks the KV and bus implementations from the
// environment: Redis when REDIS_ADDR is set, NATS for the bus when
// NATS_URL is set, in-process fallbacks otherwise.
func buildSnapshotBackends() (storage.KV, bus.Bus) {
	var kv storage.KV = storage.NewMemory()
	var changeBus bus.Bus = bus.NewMemory()

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		kv = storage.NewRedis(client, "campuslink:")
		changeBus = bus.NewRedis(client)
		log.Printf("Using Redis snapshot storage at %s", addr)
	}
	if url := os.Getenv("NATS_URL"); url != "" {
		conn, err := nats.Connect(url)
		if err != nil {
			log.Printf("NATS connect failed, keeping current bus: %v", err)
		} else {
			changeBus = bus.NewNats(conn)
			log.Printf("Using NATS change notifications at %s", url)
		}
	}
	return kv, changeBus
}
