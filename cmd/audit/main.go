// Command audit scores local document JSON files with the same rules the
// service applies, so drafts can be gated before they are uploaded to the
// CMS.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"

	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/analyzer"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/config"
	"github.com/AmanSuryavanshi-1/Aviators-Training-Centre-sub000/content"
)

type fileReport struct {
	path        string
	score       int
	failed      bool // unreadable or not a document
	issues      []string
	suggestions []string
}

func main() {
	// Flag definitions
	dir := flag.String("dir", ".", "Directory scanned for document JSON files")
	minScore := flag.Int("min", 0, "Exit non-zero when any document scores below this")
	rulesFile := flag.String("rules", "", "Rules YAML overriding the default thresholds")
	verbose := flag.Bool("verbose", false, "Print every issue and suggestion per document")

	flag.Parse()

	rules := analyzer.DefaultConfig()
	if *rulesFile != "" {
		if err := config.LoadRules(*rulesFile, &rules); err != nil {
			log.Fatal("Failed to load rules", "error", err)
		}
	}
	an := analyzer.New(rules)

	files, err := documentFiles(*dir)
	if err != nil {
		log.Fatal("Failed to scan directory", "error", err)
	}
	if len(files) == 0 {
		log.Fatal("No document JSON files found", "dir", *dir)
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond)
	s.Start()

	reports := make([]fileReport, 0, len(files))
	for _, path := range files {
		s.Suffix = " auditing " + filepath.Base(path)
		reports = append(reports, auditFile(an, path))
	}
	s.Stop()

	// Worst documents first, failures on top.
	sort.Slice(reports, func(i, j int) bool {
		if reports[i].failed != reports[j].failed {
			return reports[i].failed
		}
		return reports[i].score < reports[j].score
	})

	var sum, below, failed int
	for _, rep := range reports {
		printReport(rep, *verbose)
		if rep.failed {
			failed++
			continue
		}
		sum += rep.score
		if rep.score < *minScore {
			below++
		}
	}

	audited := len(reports) - failed
	avg := 0.0
	if audited > 0 {
		avg = float64(sum) / float64(audited)
	}
	log.Info("audit complete",
		"documents", audited,
		"averageScore", fmt.Sprintf("%.1f", avg),
		"belowMin", below,
		"unreadable", failed,
	)

	if below > 0 || failed > 0 {
		os.Exit(1)
	}
}

// documentFiles collects .json files under dir, skipping hidden
// directories.
func documentFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name != "." && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".json") {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func auditFile(an *analyzer.Analyzer, path string) fileReport {
	rep := fileReport{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		rep.failed = true
		rep.issues = []string{err.Error()}
		return rep
	}

	var doc content.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		rep.failed = true
		rep.issues = []string{"not valid JSON: " + err.Error()}
		return rep
	}
	if doc.Title == "" && len(doc.Body) == 0 {
		rep.failed = true
		rep.issues = []string{"no title and no body, not a document snapshot"}
		return rep
	}

	report := an.Audit(&doc)
	rep.score = report.Score
	rep.issues = report.Issues
	rep.suggestions = report.Suggestions
	return rep
}

func printReport(rep fileReport, verbose bool) {
	status := fmt.Sprintf("%3d", rep.score)
	if rep.failed {
		status = "ERR"
	}

	if verbose {
		fmt.Printf("%s  %s\n", status, rep.path)
		for _, issue := range rep.issues {
			fmt.Printf("     ! %s\n", issue)
		}
		for _, sug := range rep.suggestions {
			fmt.Printf("     - %s\n", sug)
		}
		return
	}

	line := fmt.Sprintf("%s  %s", status, rep.path)
	if first, extra := firstProblem(rep); first != "" {
		line += "  (" + first
		if extra > 0 {
			line += fmt.Sprintf(", +%d more", extra)
		}
		line += ")"
	}
	fmt.Println(line)
}

func firstProblem(rep fileReport) (string, int) {
	total := len(rep.issues) + len(rep.suggestions)
	if total == 0 {
		return "", 0
	}
	if len(rep.issues) > 0 {
		return rep.issues[0], total - 1
	}
	return rep.suggestions[0], total - 1
}
