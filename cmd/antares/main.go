package main

import (
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"antares/internal/api"
	"antares/internal/chat"
	"antares/internal/config"
	"antares/internal/ipc"
	"antares/internal/replay"
	"antares/internal/sim"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("antares: no .env file found, using environment variables only")
	}

	log.Println("antares: starting")

	appConfig := config.Load()

	seed := uint32(getEnvInt("ANTARES_SEED", 1))
	scenario := sim.DefaultScenario()

	session, err := sim.Load(scenario, seed)
	if err != nil {
		log.Fatalf("antares: failed to load scenario: %v", err)
	}

	limits := sim.SnapshotLimits{
		MaxObjects:  appConfig.Limits.MaxObjectsPerSnapshot,
		MaxBeams:    appConfig.Limits.MaxBeamsPerSnapshot,
		MaxMessages: appConfig.Limits.MaxMessagesPerTick,
		MaxUIEvents: appConfig.Limits.MaxUIEventsPerTick,
	}
	host := sim.NewHost(session, limits)

	eventLogPath := getEnvWithDefault("EVENT_LOG_PATH", "events.jsonl")
	eventLog := replay.NewLog()
	if err := eventLog.Start(eventLogPath); err != nil {
		log.Printf("antares: event log disabled: %v", err)
	} else {
		log.Printf("antares: event log: %s", eventLogPath)
	}

	recorder := replay.NewRecorder(seed, 0)

	var publisher *ipc.Publisher
	if os.Getenv("ANTARES_IPC_DISABLED") != "true" {
		publisher = ipc.NewPublisher("")
		if err := publisher.Start(); err != nil {
			log.Printf("antares: ipc publisher disabled: %v", err)
			publisher = nil
		}
	}

	host.OnStep(func(input sim.InputFrame, outcome sim.StepOutcome) {
		recorder.Record(input)

		for _, msg := range outcome.Messages {
			eventLog.Emit(replay.NewEvent(replay.EventUIMessage, session.Tick, msg))
		}
		if outcome.GameOver {
			eventLog.Emit(replay.NewEvent(replay.EventGameOver, session.Tick, outcome.Winner))
		}

		snap := host.Snapshot()
		api.UpdateObjectCount(len(snap.Objects))
		api.UpdateBeamCount(len(snap.Beams))
		if publisher != nil {
			publisher.PublishSnapshot(snap)
		}
	})

	if appConfig.Observability.MetricsEnabled && os.Getenv("DISABLE_DEBUG_SERVER") != "true" {
		if err := api.StartDebugServer(api.DefaultObservabilityConfig()); err != nil {
			log.Printf("antares: debug server disabled: %v", err)
		}
	}

	chatHandler := chat.NewHandler(host)
	commandQueue := chat.NewCommandQueue(chatHandler, chat.DefaultQueueConfig())
	commandQueue.Start()

	server := api.NewServer(host)

	host.Start(appConfig.Tick.TickMicros)

	port := strconv.Itoa(appConfig.Server.Port)
	go func() {
		addr := ":" + port
		log.Printf("antares: API server on http://localhost%s", addr)
		if err := server.Start(addr); err != nil {
			log.Fatalf("antares: failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	log.Println("antares: ready, press Ctrl+C to stop")
	<-quit

	log.Println("antares: shutting down")
	server.Stop()
	host.Stop()
	commandQueue.Stop()
	if publisher != nil {
		publisher.Stop()
	}
	eventLog.Stop()
	log.Println("antares: goodbye")
}

func getEnvWithDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}
