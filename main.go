package main

import (
	"context"
	"log"
	"os"
	"time"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"

	"github.com/example/syncboard/modules/api"
	"github.com/example/syncboard/modules/fanout"
	"github.com/example/syncboard/modules/task"
)

const shutdownTimeout = 30 * time.Second

func main() {
	log.Println("=== SyncBoard - Real-Time Task Board ===")

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(shutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}

	// Create modules
	taskModule := task.NewModule()
	fanoutModule := fanout.NewModule()
	apiModule := api.NewModule()

	// Inject fanout hub into API module
	// (This is done manually because the hub is not exposed via ServiceContainer)
	apiModule.SetHub(fanoutModule.GetHub())

	// Register modules with the framework.
	// Order: independent modules first, then modules with dependencies
	// - task: Mutation path (ServiceProviderModule + EventEmitterModule)
	// - fanout: Event consumer pushing board events to WebSocket viewers
	// - api: Driving adapter (Fiber HTTP/WebSocket server, depends on task)
	app.Register(taskModule)
	app.Register(fanoutModule)
	app.Register(apiModule)

	// Start application
	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start application: %v", err)
	}

	printStartupInfo()

	// Graceful shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}

func printStartupInfo() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "syncboard.db"
	}

	log.Println("")
	log.Println("Application started successfully!")
	log.Println("")
	log.Println("Architecture:")
	log.Println("  - HTTP Framework: Fiber with WebSocket support")
	log.Println("  - Storage: GORM + SQLite")
	log.Printf("  - Database: %s", dbPath)
	log.Println("")
	log.Println("Event-Driven Fanout:")
	log.Println("  - TaskAdded events   -> fanout module -> all WebSocket viewers")
	log.Println("  - TaskUpdated events -> fanout module -> all WebSocket viewers")
	log.Println("  - TaskDeleted events -> fanout module -> all WebSocket viewers")
	log.Println("")
	log.Printf("REST API Endpoints (http://localhost:%s):", port)
	log.Println("  GET    /health      - Health check")
	log.Println("  GET    /tasks       - List all tasks (newest first)")
	log.Println("  POST   /tasks       - Create a task (starts in TODO)")
	log.Println("  GET    /tasks/:id   - Get a single task")
	log.Println("  PUT    /tasks/:id   - Move a task to another column")
	log.Println("  DELETE /tasks/:id   - Delete a task")
	log.Println("")
	log.Printf("WebSocket Endpoint (ws://localhost:%s/ws):", port)
	log.Println("  Push-only event stream: taskAdded, taskUpdated, taskDeleted")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown gracefully")
}
