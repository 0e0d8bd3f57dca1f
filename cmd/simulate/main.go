// Command simulate runs a one-shot EV-fleet charging simulation and prints
// the result as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/derivatio/ev-optimizer/config"
	"github.com/derivatio/ev-optimizer/entsoe"
	"github.com/derivatio/ev-optimizer/simulation"
)

func main() {
	var (
		configFile   = flag.String("config", "config.json", "Configuration file path")
		area         = flag.String("area", "SE3", "Bidding zone code")
		periodStart  = flag.String("start", "", "Period start date, YYYY-MM-DD")
		periodEnd    = flag.String("end", "", "Period end date (inclusive), YYYY-MM-DD")
		vehicles     = flag.Int("vehicles", 8, "Fleet vehicle count")
		chargerKW    = flag.Float64("charger-kw", 11, "Per-vehicle charger power, kW")
		batteryKWh   = flag.Float64("battery-kwh", 77, "Per-vehicle battery capacity, kWh")
		arrivalSOC   = flag.Float64("arrival-soc", 0.25, "Average arrival state of charge, fraction")
		arrivalHour  = flag.Int("arrival-hour", 18, "Average arrival hour, local time")
		departHour   = flag.Int("departure-hour", 8, "Average departure hour, local time")
		subKW        = flag.Float64("subscription-kw", 150, "Contractual subscription ceiling, kW")
		help         = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		os.Exit(1)
	}

	if *periodStart == "" || *periodEnd == "" {
		fmt.Println("Error: -start and -end are required")
		os.Exit(1)
	}

	loc, err := time.LoadLocation(cfg.Location)
	if err != nil {
		fmt.Println("Error loading configured timezone:", err)
		os.Exit(1)
	}

	start, err := time.ParseInLocation("2006-01-02", *periodStart, loc)
	if err != nil {
		fmt.Println("Error parsing -start:", err)
		os.Exit(1)
	}
	end, err := time.ParseInLocation("2006-01-02", *periodEnd, loc)
	if err != nil {
		fmt.Println("Error parsing -end:", err)
		os.Exit(1)
	}
	end = end.Add(23 * time.Hour)

	logger := log.New(os.Stderr, "[SIMULATE] ", log.LstdFlags)

	priceSource := entsoe.NewSource(cfg.SecurityToken, loc, logger)
	prices, err := priceSource.Fetch(context.Background(), *area, start, end)
	if err != nil {
		fmt.Println("Error fetching prices:", err)
		os.Exit(1)
	}

	spotPrices := make([]simulation.PricePoint, len(prices))
	for i, p := range prices {
		spotPrices[i] = simulation.PricePoint{Timestamp: p.Timestamp, PriceOreKWh: p.Price}
	}

	req := simulation.Request{
		Property: simulation.Property{
			Area:           *area,
			SubscriptionKW: *subKW,
		},
		Fleet: simulation.Fleet{
			Vehicles:      *vehicles,
			ChargerKW:     *chargerKW,
			BatteryKWh:    *batteryKWh,
			ArrivalSOC:    *arrivalSOC,
			ArrivalHour:   *arrivalHour,
			DepartureHour: *departHour,
		},
		Tariff:      cfg.DefaultTariff,
		PeriodStart: start,
		PeriodEnd:   end,
		SpotPrices:  spotPrices,
	}

	orchestrator := simulation.NewOrchestrator(cfg, logger)
	resp, err := orchestrator.Simulate(req)
	if err != nil {
		fmt.Println("Error running simulation:", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(resp); err != nil {
		fmt.Println("Error encoding result:", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("simulate - run a one-shot EV-fleet charging cost simulation")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  simulate -config=config.json -start=2025-01-08 -end=2025-01-08")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
}
