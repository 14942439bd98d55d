package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	messages "github.com/kpaschen/tsalign/lib/kafka"
	"github.com/kpaschen/tsalign/lib/reporter"
	"github.com/kpaschen/tsalign/lib/settings"
	"github.com/kpaschen/tsalign/receiver"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kafka "github.com/segmentio/kafka-go"
)

func main() {
	var kafkaURL string
	var groupID string
	var metricsAddr string
	var configFile string
	var alignConfig settings.AlignSettings

	flag.StringVar(&kafkaURL, "kafkaURL", "", "The URL for the kafka broker.")
	flag.StringVar(&groupID, "groupID", "tsalign", "Consumer group for the request topic. Workers in the same group share requests.")
	flag.StringVar(&metricsAddr, "metrics-address", ":9204", "The address the metrics endpoint binds to.")
	flag.StringVar(&configFile, "config", "", "Optional yaml file with alignment settings. Flags given on the command line take precedence.")
	settings.RegisterFlags(flag.CommandLine, &alignConfig)
	flag.Parse()

	if kafkaURL == "" {
		log.Fatal("need -kafkaURL")
	}
	if configFile != "" {
		if err := settings.ApplyConfigFile(flag.CommandLine, configFile, &alignConfig); err != nil {
			log.Fatalf("failed to read settings from %s: %v\n", configFile, err)
		}
	}
	alignConfig = alignConfig.ComputeSettingsFields()

	rep, err := reporter.NewReporter(alignConfig,
		fmt.Sprintf("kafka_alignments_%s.parquet", time.Now().Format("20060102150405")))
	if err != nil {
		log.Fatal(err)
	}
	processor, err := receiver.NewAlignProcessor(alignConfig, rep)
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(metricsAddr, nil)

	requestReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{kafkaURL},
		GroupID: groupID,
		Topic:   messages.REQUEST_TOPIC,
	})
	defer requestReader.Close()

	resultWriter := &kafka.Writer{
		Addr:     kafka.TCP(kafkaURL),
		Topic:    messages.RESULT_TOPIC,
		Balancer: &kafka.Hash{},
	}
	defer resultWriter.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := messages.NewWorker(requestReader, resultWriter, processor).Run(ctx); err != nil {
		log.Printf("kafka worker stopped: %v\n", err)
	}
	log.Println("kafka worker shutting down")
	if err := processor.Shutdown(); err != nil {
		log.Printf("failed to flush alignment reports: %v\n", err)
	}
}
