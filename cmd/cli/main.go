package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"bootdw/adapters/excel"
	"bootdw/adapters/rng"
	"bootdw/adapters/stats/autocorr"
	"bootdw/app"
	"bootdw/domain/core"
	"bootdw/domain/serialcorr"
	"bootdw/internal"
	"bootdw/internal/config"
)

func main() {
	_ = godotenv.Load()

	var (
		filePath    = flag.String("file", "", "path to a local xlsx or csv dataset")
		responseCol = flag.String("response", "", "response column name")
		covariates  = flag.String("covariates", "", "comma-separated covariate column names (empty for intercept-only)")
		methodsFlag = flag.String("methods", "", "comma-separated methods: dw,bdw,b_rho,bca_rho (default all)")
		alternative = flag.String("alternative", "two_sided", "alternative hypothesis: greater, less, two_sided")
		nBootstrap  = flag.Int("bootstrap", 0, "bootstrap replicate count (default from config)")
		seed        = flag.Int64("seed", 0, "random seed (default from config)")
	)
	flag.Parse()

	logger := internal.NewDefaultLogger()

	if *filePath == "" || *responseCol == "" {
		logger.Error("-file and -response are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("loading configuration: %v", err)
		os.Exit(1)
	}
	if *nBootstrap == 0 {
		*nBootstrap = cfg.Bootstrap.DefaultReplicates
	}
	if *seed == 0 {
		*seed = cfg.Bootstrap.DefaultSeed
	}

	alt, err := serialcorr.ParseAlternative(*alternative)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(2)
	}

	methods, err := parseMethods(*methodsFlag)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(2)
	}

	ctx := context.Background()
	reader := excel.NewDataReader()
	dataset, err := reader.ReadDataset(ctx, *filePath)
	if err != nil {
		logger.Error("reading dataset: %v", err)
		os.Exit(1)
	}

	var covariateCols []string
	if *covariates != "" {
		covariateCols = strings.Split(*covariates, ",")
		for i := range covariateCols {
			covariateCols[i] = strings.TrimSpace(covariateCols[i])
		}
	}
	response, design, err := excel.ResponseAndDesign(dataset, *responseCol, covariateCols)
	if err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}

	runner := autocorr.NewRunner(rng.NewAdapter())
	battery := app.NewBatteryService(runner, nil)
	result, err := battery.RunBattery(ctx, app.BatteryRequest{
		DatasetKey:   core.DatasetKey(*filePath),
		Response:     response,
		Design:       design,
		Methods:      methods,
		NumBootstrap: *nBootstrap,
		Alternative:  alt,
		Seed:         *seed,
	})
	if err != nil {
		logger.Error("running battery: %v", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		logger.Error("encoding output: %v", err)
		os.Exit(1)
	}
}

func parseMethods(raw string) ([]serialcorr.Method, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	methods := make([]serialcorr.Method, 0, len(parts))
	for _, part := range parts {
		method, err := serialcorr.ParseMethod(part)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	return methods, nil
}
