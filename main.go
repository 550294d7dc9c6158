package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"GeoCount-App/internal/domain/model"
	repoImpl "GeoCount-App/internal/repository"
	"GeoCount-App/internal/usecase"
)

// CLI版: KMLポリゴン内のCSVポイントを数えて結果CSVを書き出す
func main() {
	kmlPath := flag.String("kml", "", "Path to KML file")
	csvPath := flag.String("csv", "", "Path to CSV file with LAT/LON columns")
	latCol := flag.String("lat-col", "LAT", "Latitude column name")
	lonCol := flag.String("lon-col", "LON", "Longitude column name")
	weightCol := flag.String("weight-col", "FF", "Optional weight column (empty to disable)")
	output := flag.String("output", "", "Output CSV path")
	flag.Parse()

	if *kmlPath == "" || *csvPath == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: -kml <file> -csv <file> -output <file> [-lat-col LAT] [-lon-col LON] [-weight-col FF]")
		os.Exit(2)
	}

	if err := run(*kmlPath, *csvPath, *latCol, *lonCol, *weightCol, *output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(kmlPath, csvPath, latCol, lonCol, weightCol, output string) error {
	kmlFile, err := os.Open(kmlPath)
	if err != nil {
		return err
	}
	defer kmlFile.Close()

	csvFile, err := os.Open(csvPath)
	if err != nil {
		return err
	}
	defer csvFile.Close()

	ctx := context.Background()
	classifyUseCase := usecase.NewClassifyUseCase(repoImpl.NewMemoryResultRepository(), time.Hour)

	response, err := classifyUseCase.Classify(ctx, &model.ClassifyRequest{
		KML:       kmlFile,
		CSV:       csvFile,
		LatCol:    latCol,
		LonCol:    lonCol,
		WeightCol: weightCol,
	})
	if err != nil {
		return err
	}

	stored, err := classifyUseCase.GetResult(ctx, response.RunID)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, []byte(stored.ResultsCSV), 0o644); err != nil {
		return err
	}

	fmt.Printf("Wrote %d polygon results to %s\n", len(response.Results), output)
	return nil
}
