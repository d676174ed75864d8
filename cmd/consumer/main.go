// Consumer reads records from kafka and prints them to stdout one per line.
// Keys and values are decoded as utf-8 text; records that don't decode are
// reported and skipped. This is meant as an example of how to use the library.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mtarnawa/kafkaconsumer/compression"
	"github.com/mtarnawa/kafkaconsumer/config"
	"github.com/mtarnawa/kafkaconsumer/consumer"
	"github.com/mtarnawa/kafkaconsumer/offsets"
	"github.com/mtarnawa/kafkaconsumer/record"
)

var (
	projectName  string
	buildVersion string
	buildTime    string
)

func text(b []byte) (string, error) {
	if !utf8.Valid(b) {
		return "", fmt.Errorf("not valid utf-8")
	}
	return string(b), nil
}

func main() {
	configPath := flag.String("config", "", "path to YAML config; defaults and KAFKACONSUMER_* env vars apply when empty")
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile | log.LUTC | log.Lmicroseconds)
	log.Printf("%s %s %s %s", projectName, buildVersion, buildTime, runtime.Version())
	//
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	//
	store, err := offsets.New(cfg.Store, cfg.Bootstrap, cfg.GroupId, logger)
	if err != nil {
		log.Fatal(err)
	}
	committer := offsets.ForMode(cfg.CommitMode, store, logger)
	defer committer.Close()
	if async, ok := committer.(*offsets.Async); ok {
		go func() {
			for res := range async.Results() {
				if res.Error != nil {
					log.Printf("commit %s/%d@%d: %v", res.Topic, res.Partition, res.Offset, res.Error)
				}
			}
		}()
	}
	//
	c := &consumer.Static{
		Bootstrap:    cfg.Bootstrap,
		ClientId:     cfg.ClientId,
		Assignments:  cfg.Assignments(),
		NumWorkers:   cfg.NumWorkers,
		Reset:        cfg.Reset,
		Offsets:      committer,
		PollInterval: cfg.PollInterval,
		MinBytes:     cfg.MinBytes,
		MaxBytes:     cfg.MaxBytes,
		Logger:       logger,
	}
	exchanges, err := c.Start()
	if err != nil {
		log.Fatal(err)
	}
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		c.Stop()
	}()
	//
	decompressors := compression.Decompressors()
	for e := range exchanges {
		if e.RequestError != nil {
			log.Printf("fetch %s/%d: %v", e.Topic, e.Partition, e.RequestError)
			continue
		}
		records, err := e.Records(decompressors)
		if err != nil {
			log.Printf("parse %s/%d: %v", e.Topic, e.Partition, err)
			continue
		}
		for _, r := range records {
			decoded, err := record.TraverseBoth(r, text, text)
			if err != nil {
				log.Println(err)
				continue
			}
			fmt.Printf("%s/%d@%d %s %s\n",
				decoded.Topic, decoded.Partition, decoded.Offset, decoded.Key, decoded.Value)
		}
	}
}
