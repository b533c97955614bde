package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"mercury/config"
	"mercury/infra/feed"
	"mercury/infra/journal"
	"mercury/infra/kafka"
	"mercury/infra/registry"
	"mercury/infra/report"
	"mercury/infra/sequence"
	"mercury/jobs/broadcaster"
	"mercury/pkg/logger"
	"mercury/service"
)

func main() {
	_ = godotenv.Load()

	cfgPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logrus.Fatalf("config load failed: %v", err)
	}
	if err := logger.Init(cfg.Log); err != nil {
		logrus.Fatalf("logger init failed: %v", err)
	}

	reader, err := feed.NewReader(cfg.WatchDir)
	if err != nil {
		logrus.Fatalf("feed init failed: %v", err)
	}
	writer, err := report.NewWriter(cfg.OutputDir)
	if err != nil {
		logrus.Fatalf("report init failed: %v", err)
	}
	reg, err := registry.Open(cfg.RegistryDir)
	if err != nil {
		logrus.Fatalf("registry init failed: %v", err)
	}
	defer reg.Close()

	jr, err := journal.Open(journal.Config{
		Dir:         cfg.Journal.Dir,
		SegmentSize: cfg.Journal.SegmentSize,
	})
	if err != nil {
		logrus.Fatalf("journal init failed: %v", err)
	}
	defer jr.Close()

	// Seeding from wall time keeps journal/outbox sequences growing
	// across restarts.
	seq := sequence.New(uint64(time.Now().UnixNano()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var summary service.SummaryPublisher
	if cfg.Kafka.Enabled {
		bc, err := broadcaster.New(reg, cfg.Kafka.Brokers, cfg.Kafka.TradeTopic, 250*time.Millisecond)
		if err != nil {
			logrus.Fatalf("broadcaster init failed: %v", err)
		}
		defer bc.Close()
		bc.Start(ctx)

		producer := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.SummaryTopic)
		defer producer.Close()
		summary = producer
	}

	runner := service.NewRunner(service.RunnerConfig{
		Feed:          reader,
		Reports:       writer,
		Registry:      reg,
		Journal:       jr,
		Seq:           seq,
		Summary:       summary,
		PublishEvents: cfg.Kafka.Enabled,
		Interval:      cfg.PollInterval.Duration,
	})
	runner.Run(ctx)
}
