package main

import (
	"flag"
	"fmt"
	"os"

	"floorplanner/internal/app"
	"floorplanner/internal/catalog"
	"floorplanner/internal/engineconfig"
	"floorplanner/internal/logger"
)

func main() {
	configPath := flag.String("config", engineconfig.ConfigPath, "planner preferences (JSON)")
	dotenvPath := flag.String("env", ".env", "dotenv file read before PLANNER_* variables")
	flag.Parse()

	prefs, warnings, err := engineconfig.Resolve(*dotenvPath, *configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := logger.New(prefs.LogPath)
	for _, w := range warnings {
		log.Log(w.Error())
	}

	cat := catalog.Default()
	if prefs.CatalogPath != "" {
		loaded, err := catalog.LoadFile(prefs.CatalogPath)
		if err != nil {
			log.Logf("%v; using the built-in catalog", err)
		} else {
			cat = loaded
		}
	}
	log.Logf("planner: %d modules, floor %gx%g m, limit %g", cat.Len(), prefs.FloorWidth, prefs.FloorDepth, prefs.BudgetLimit)

	app.New(prefs, *configPath, cat, log).Run()
}
