package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/kpaschen/tsalign/explorer"
	"github.com/kpaschen/tsalign/lib/reporter"
	"github.com/kpaschen/tsalign/lib/settings"
	"github.com/kpaschen/tsalign/receiver"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type config struct {
	listenAddress   string
	explorerAddress string
	metricsAddress  string
}

func main() {
	var metricsAddr string
	var listenAddr string
	var explorerAddr string
	var noExplore bool
	var scanInterval time.Duration
	var configFile string
	var alignConfig settings.AlignSettings

	flag.StringVar(&metricsAddr, "metrics-address", ":9203", "The address the metrics endpoint binds to.")
	flag.StringVar(&listenAddr, "listen-address", ":9201", "The address that the alignment endpoints bind to.")
	flag.StringVar(&explorerAddr, "explorer-address", ":9205", "The address that the explorer endpoint binds to.")
	flag.BoolVar(&noExplore, "noExplore", false, "If true, do not launch the explorer endpoint")
	flag.DurationVar(&scanInterval, "scanInterval", time.Minute, "How often the explorer looks for new parquet reports")
	flag.StringVar(&configFile, "config", "", "Optional yaml file with alignment settings. Flags given on the command line take precedence.")
	settings.RegisterFlags(flag.CommandLine, &alignConfig)

	flag.Parse()

	if configFile != "" {
		if err := settings.ApplyConfigFile(flag.CommandLine, configFile, &alignConfig); err != nil {
			log.Fatalf("failed to read settings from %s: %v\n", configFile, err)
		}
	}
	alignConfig = alignConfig.ComputeSettingsFields()

	cfg := &config{
		listenAddress:   listenAddr,
		explorerAddress: explorerAddr,
		metricsAddress:  metricsAddr,
	}

	rep, err := reporter.NewReporter(alignConfig,
		fmt.Sprintf("alignments_%s.parquet", time.Now().Format("20060102150405")))
	if err != nil {
		log.Fatal(err)
	}
	processor, err := receiver.NewAlignProcessor(alignConfig, rep)
	if err != nil {
		log.Fatal(err)
	}

	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(cfg.metricsAddress, nil)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	alignRouter := mux.NewRouter().StrictSlash(true)
	alignRouter.HandleFunc("/api/v1/align", processor.HandleAlign).Methods("POST")
	alignRouter.HandleFunc("/api/v1/profile", processor.HandleProfile).Methods("POST")
	alignRouter.HandleFunc("/api/v1/write", processor.ReceivePrometheusData).Methods("POST")
	alignServer := &http.Server{
		Addr:    cfg.listenAddress,
		Handler: alignRouter,
	}
	go func() {
		log.Printf("alignment service listening on %s using %s\n", cfg.listenAddress, alignConfig.Distance)
		if err := alignServer.ListenAndServe(); err != nil {
			if err != http.ErrServerClosed {
				processor.Shutdown()
				log.Fatal(err)
			}
		}
	}()

	var explorerServer *http.Server
	var expl *explorer.AlignmentExplorer

	if !noExplore && alignConfig.ResultsDirectory != "" {
		expl = &explorer.AlignmentExplorer{
			FilenameBase: alignConfig.ResultsDirectory,
		}
		if err := expl.Initialize(scanInterval); err != nil {
			log.Printf("failed to initialize explorer: %v\n", err)
		}

		explorerRouter := mux.NewRouter().StrictSlash(true)
		explorerRouter.HandleFunc("/getReports", expl.GetReports).Methods("GET")
		explorerRouter.HandleFunc("/getAlignments", expl.GetAlignments).Methods("GET")
		explorerRouter.HandleFunc("/getAlignment", expl.GetAlignment).Methods("GET")
		explorerServer = &http.Server{
			Addr:    cfg.explorerAddress,
			Handler: explorerRouter,
		}

		go func() {
			log.Printf("explorer service listening on %s\n", cfg.explorerAddress)
			if err := explorerServer.ListenAndServe(); err != nil {
				if err != http.ErrServerClosed {
					log.Fatal(err)
				}
			}
		}()
	}

	<-stop
	log.Println("alignment service shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := alignServer.Shutdown(ctx); err != nil {
		log.Printf("failed to shut down cleanly: %v\n", err)
	}
	if explorerServer != nil {
		expl.Stop()
		// This is best effort, there is nothing really to do.
		if err := explorerServer.Shutdown(ctx); err != nil {
			log.Printf("failed to shut down explorer: %v\n", err)
		}
	}
	// Parquet reports are only readable once the footer is written.
	if err := processor.Shutdown(); err != nil {
		log.Printf("failed to flush alignment reports: %v\n", err)
	}
}
