package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/dogeorg/dogewalker/core"
	"github.com/dogeorg/governor"

	"github.com/dogeorg/explorer/index"
	"github.com/dogeorg/explorer/rpc"
	"github.com/dogeorg/explorer/store"
	"github.com/dogeorg/explorer/supply"
	"github.com/dogeorg/explorer/web"
)

type Config struct {
	rpcHost    string
	rpcPort    int
	rpcUser    string
	rpcPass    string
	zmqHost    string
	zmqPort    int
	dbFile     string
	webBind    string
	corsOrigin string
	supplyMode string
}

func main() {
	config := Config{
		rpcHost:    envString("RPC_HOST", "127.0.0.1"),
		rpcPort:    envInt("RPC_PORT", 22555),
		rpcUser:    envString("RPC_USER", "dogecoin"),
		rpcPass:    envString("RPC_PASS", "dogecoin"),
		zmqHost:    envString("ZMQ_HOST", "127.0.0.1"),
		zmqPort:    envInt("ZMQ_PORT", 28332),
		dbFile:     envString("DB", "explorer.db"),
		webBind:    ":" + envString("PORT", "8000"),
		corsOrigin: envString("CORS_ORIGIN", "*"),
		supplyMode: envString("SUPPLY_MODE", ""),
	}

	gov := governor.New().CatchSignals().Restart(1 * time.Second)

	// create database store
	db, err := store.NewBalanceStore(config.dbFile, context.Background())
	if err != nil {
		log.Fatalf("cannot open database: %v", err)
	}

	// Core Node blockchain access.
	node := rpc.NewClient(config.rpcHost, config.rpcPort, config.rpcUser, config.rpcPass)

	// TipChaser
	zmqAddr := fmt.Sprintf("tcp://%v:%v", config.zmqHost, config.zmqPort)
	zmqSvc, tipChanged := core.NewTipChaser(zmqAddr)
	gov.Add("ZMQ", zmqSvc)

	// Sync address balances from the chain.
	gov.Add("Index", index.NewIndexer(db, node, tipChanged))

	// Explorer API.
	calc := supply.NewCalculator(node, db)
	gov.Add("Web", web.New(config.webBind, db, calc, supply.ParseMode(config.supplyMode), config.corsOrigin))

	// run services until interrupted.
	gov.Start()
	gov.WaitForShutdown()
	fmt.Println("finished.")
}

func envString(key string, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		num, err := strconv.Atoi(val)
		if err != nil {
			log.Fatalf("invalid %v: %v", key, val)
		}
		return num
	}
	return def
}
