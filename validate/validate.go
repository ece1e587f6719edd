// Command validate provides a small CLI that validates map files (YAML or
// JSON) in a directory, ../maps by default. It checks:
//   - File structure and required fields
//   - Coordinate ranges and volume classes
//   - Neighbor lists (no dangling, self or duplicate links)
//   - One-way links, reported as warnings
//   - Connectivity: every location is linked from location 0
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wricardo/fleetreach/game/engine"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File     string
	Valid    bool
	Errors   []string
	Warnings []string
}

// validateMap loads and validates a single map file
func validateMap(filePath string) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	config, err := engine.ParseMapConfig(filePath, data)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid file: %v", err))
		return result
	}

	if err := engine.ValidateMapConfig(config); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	catalog, err := config.Catalog()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	for _, e := range catalog.AsymmetricEdges() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("One-way link: %d (%s) -> %d (%s)",
			e.From, catalog.Name(e.From), e.To, catalog.Name(e.To)))
	}

	connectivity := validateConnectivity(catalog)
	if !connectivity.Valid {
		result.Valid = false
		result.Errors = append(result.Errors, connectivity.Errors...)
		return result
	}
	result.Errors = append(result.Errors, connectivity.Errors...)

	// Add informational data
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", config.Name))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Locations: %d", catalog.Count()))
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Links: %d", len(catalog.Edges())))

	return result
}

// validateConnectivity ensures every location can be reached from location 0
// by following links. Energy is not considered.
func validateConnectivity(catalog *engine.Catalog) ValidationResult {
	result := ValidationResult{
		Valid:  true,
		Errors: []string{},
	}

	visited := make([]bool, catalog.Count())
	visited[0] = true
	queue := []int{0}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range catalog.Neighbors(current) {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	unreachable := []string{}
	for id, ok := range visited {
		if !ok {
			unreachable = append(unreachable, fmt.Sprintf("%d (%s)", id, catalog.Name(id)))
		}
	}

	if len(unreachable) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Connectivity failure: %d/%d locations unreachable from %s",
			len(unreachable), catalog.Count(), catalog.Name(0)))
		for _, loc := range unreachable {
			result.Errors = append(result.Errors, fmt.Sprintf("Unreachable: %s", loc))
		}
	} else {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Connectivity: All %d locations linked from %s",
			catalog.Count(), catalog.Name(0)))
	}

	return result
}

// findMapFiles lists the map files of a directory
func findMapFiles(dir string) ([]string, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml", "*.json"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		files = append(files, matches...)
	}
	return files, nil
}

// main validates every map file in the directory given as the first argument,
// printing a concise report and exiting with non-zero status if any are invalid.
func main() {
	mapsDir := "../maps"
	if len(os.Args) > 1 {
		mapsDir = os.Args[1]
	}

	files, err := findMapFiles(mapsDir)
	if err != nil {
		fmt.Printf("Error finding map files: %v\n", err)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateMap(file)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
		for _, warning := range result.Warnings {
			fmt.Println("  ⚠️  " + warning)
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All maps are valid!")
	} else {
		fmt.Println("❌ Some maps have errors")
		os.Exit(1)
	}
}
