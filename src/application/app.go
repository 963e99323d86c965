package application

import (
	"fmt"
	"os"

	"stem-session/src/application/events"
	"stem-session/src/application/executor"
	"stem-session/src/application/export"
	"stem-session/src/application/export/sink"
	"stem-session/src/application/extraction"
	"stem-session/src/application/playback"
	"stem-session/src/application/playback/device"
	"stem-session/src/application/separation"
	"stem-session/src/application/session"
	"stem-session/src/application/stems/store"
	"stem-session/src/lib/env"

	"github.com/apex/log"

	"github.com/streadway/amqp"
)

func getEnvOrPanic(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("No env variable found for key %s", key))
	}

	return val
}

func ensureOk(err error) {
	if err != nil {
		panic(err)
	}
}

type App struct {
	Session *session.Session
	Events  *events.ChannelPublisher
}

func NewApp() App {
	if env.Get() == env.Development {
		log.SetLevel(log.DebugLevel)
	}

	stemStore := store.NewStore()
	manager := extraction.NewManager(newDemucsBackend())

	speakerDevice, err := device.NewSpeakerDevice(device.DefaultSampleRate)
	ensureOk(err)

	controller := playback.NewController(stemStore, speakerDevice)
	exporter := export.NewExporter(stemStore, newFileStore())

	channelPublisher := events.NewChannelPublisher(64)

	return App{
		Session: session.NewSession(stemStore, manager, controller, exporter, newPublisher(channelPublisher)),
		Events:  channelPublisher,
	}
}

func newDemucsBackend() separation.DemucsBackend {
	workingDir := getEnvOrPanic("DEMUCS_WORKING_DIR_PATH")
	demucsBinPath := getEnvOrPanic("DEMUCS_BIN_PATH")
	modelName := os.Getenv("DEMUCS_MODEL_NAME")

	backend, err := separation.NewDemucsBackend(workingDir, demucsBinPath, modelName, executor.BinaryFileExecutor{})
	ensureOk(err)
	return backend
}

func newFileStore() sink.FileStore {
	localFileStore := sink.NewLocalFileStore()

	jsonKey := os.Getenv("GOOGLE_CLOUD_KEY")
	if jsonKey == "" {
		return localFileStore
	}

	googleFileStore, err := sink.NewGoogleFileStore(jsonKey)
	ensureOk(err)
	return sink.NewSelectFileStore(localFileStore, googleFileStore)
}

func newPublisher(channelPublisher *events.ChannelPublisher) events.Publisher {
	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		return channelPublisher
	}

	conn, err := amqp.Dial(rabbitURL)
	ensureOk(err)

	rabbitPublisher, err := events.NewRabbitMQPublisher(conn, getEnvOrPanic("RABBITMQ_QUEUE_NAME"))
	ensureOk(err)

	return events.NewMultiPublisher(channelPublisher, rabbitPublisher)
}
