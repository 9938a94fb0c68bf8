package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/desertthunder/grand/internal/formatter"
	"github.com/desertthunder/grand/internal/session"
	"github.com/desertthunder/grand/internal/shared"
)

// Export formats.
const (
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatMarkdown = "markdown"
	FormatText     = "txt"
)

// ExportOpts contains configuration for plan exports.
type ExportOpts struct {
	Format      string  // Export format: json, csv, markdown, txt
	OutputDir   string  // Base output directory (default: grand_export_{epoch})
	NumWorkers  int     // Concurrent workers (default: 5)
	RateLimit   float64 // Devices read per second (default: 5)
	DownloadArt bool    // Fetch a cover image for markdown exports
}

// PlanExportJob is one device's plan waiting to be written.
type PlanExportJob struct {
	DeviceID string
	Report   formatter.Report
}

// PlanExportResult is the outcome for one device.
type PlanExportResult struct {
	DeviceID string   `json:"device_id"`
	Name     string   `json:"name"`
	Success  bool     `json:"success"`
	Files    []string `json:"files,omitempty"`
	Error    error    `json:"-"`
	Message  string   `json:"error,omitempty"`
}

// ExportResult summarises a bulk export and is written as its manifest.
type ExportResult struct {
	Format            string             `json:"format"`
	TotalDevices      int                `json:"total_devices"`
	SuccessfulExports int                `json:"successful_exports"`
	FailedExports     int                `json:"failed_exports"`
	OutputDirectory   string             `json:"output_directory"`
	ExportedAt        time.Time          `json:"exported_at"`
	Results           []PlanExportResult `json:"results"`
	ManifestPath      string             `json:"-"`
}

// Exporter writes the stored plans of many devices to disk.
type Exporter struct {
	state session.Backend
}

// NewExporter reads plans through state.
func NewExporter(state session.Backend) *Exporter {
	return &Exporter{state: state}
}

// Export exports the plans of several devices concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern: devices are read in order at the configured rate
// and written by the workers. Devices without a plan fail individually; a manifest summarising
// every result is written last.
func (x *Exporter) Export(ctx context.Context, prog chan<- ProgressUpdate, deviceIDs []string, opts ExportOpts) (*ExportResult, error) {
	if x.state == nil {
		return nil, fmt.Errorf("%w: state backend not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("grand_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportResult{
		Format:          opts.Format,
		TotalDevices:    len(deviceIDs),
		OutputDirectory: opts.OutputDir,
		ExportedAt:      time.Now(),
		Results:         make([]PlanExportResult, 0, len(deviceIDs)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan PlanExportJob, len(deviceIDs))
	results := make(chan PlanExportResult, len(deviceIDs))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		defer close(jobs)
		for i, id := range deviceIDs {
			if ctx.Err() != nil {
				return
			}
			if err := limiter.Wait(ctx); err != nil {
				return
			}

			report, err := x.load(ctx, id, result.ExportedAt)
			if err != nil {
				results <- PlanExportResult{DeviceID: id, Name: id, Error: err, Message: err.Error()}
				continue
			}

			jobs <- PlanExportJob{DeviceID: id, Report: report}
			sendProgress(prog, exportingUpdate(i+1, len(deviceIDs), report.Profile.Name))
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			sendProgress(prog, exportCompletedUpdate(completed, len(deviceIDs), res.Name, len(res.Files)))
		} else {
			result.FailedExports++
			sendProgress(prog, exportFailedUpdate(completed, len(deviceIDs), res.Name, res.Error))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteManifest(result, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, ctx.Err()
}

// load reads a device's profile, plan and feedback.
func (x *Exporter) load(ctx context.Context, deviceID string, at time.Time) (formatter.Report, error) {
	store := session.New(x.state, deviceID)

	profile, err := store.RequireProfile(ctx)
	if err != nil {
		return formatter.Report{}, fmt.Errorf("failed to read profile: %w", err)
	}
	plan, err := store.Content(ctx)
	if err != nil {
		return formatter.Report{}, fmt.Errorf("failed to read plan: %w", err)
	}
	if plan == nil {
		return formatter.Report{}, fmt.Errorf("%w: %s has no plan", shared.ErrStateNotFound, profile.Name)
	}
	fb, err := store.Feedback(ctx)
	if err != nil {
		return formatter.Report{}, fmt.Errorf("failed to read feedback: %w", err)
	}
	return formatter.Report{Profile: profile, Plan: plan, Feedback: fb, ExportedAt: at}, nil
}

// exportWorker is a worker goroutine that writes plans from the jobs channel.
func exportWorker(ctx context.Context, wg *sync.WaitGroup, jobs <-chan PlanExportJob, results chan<- PlanExportResult, opts ExportOpts) {
	defer wg.Done()

	for job := range jobs {
		if ctx.Err() != nil {
			return
		}
		results <- ExportPlan(job, opts)
	}
}

// ExportPlan writes a single plan in opts.Format under opts.OutputDir.
func ExportPlan(j PlanExportJob, opts ExportOpts) PlanExportResult {
	result := PlanExportResult{DeviceID: j.DeviceID, Name: j.Report.Profile.Name, Files: []string{}}
	fail := func(err error) PlanExportResult {
		result.Error, result.Message = err, err.Error()
		return result
	}

	switch opts.Format {
	case FormatCSV:
		csvRes, err := formatter.WriteCSVExport(j.Report, filepath.Join(opts.OutputDir, j.DeviceID))
		if err != nil {
			return fail(fmt.Errorf("CSV export failed: %w", err))
		}
		result.Files = []string{csvRes.ItemsFile, csvRes.MetadataFile}

	case FormatMarkdown:
		var imageURL string
		if opts.DownloadArt {
			imageURL = formatter.CoverURL(j.Report)
		}
		mdRes, err := formatter.WriteMarkdownExport(j.Report, filepath.Join(opts.OutputDir, j.DeviceID), imageURL)
		if err != nil {
			return fail(fmt.Errorf("markdown export failed: %w", err))
		}
		result.Files = mdRes.Files

	case FormatText:
		path, err := formatter.WriteTextExport(j.Report, filepath.Join(opts.OutputDir, j.DeviceID+"_plan.txt"))
		if err != nil {
			return fail(fmt.Errorf("text export failed: %w", err))
		}
		result.Files = []string{path}

	case FormatJSON:
		jsonPath := filepath.Join(opts.OutputDir, j.DeviceID+".json")
		if err := formatter.WriteManifest(j.Report.Plan, jsonPath); err != nil {
			return fail(fmt.Errorf("JSON export failed: %w", err))
		}
		result.Files = []string{jsonPath}

	default:
		return fail(fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, opts.Format))
	}

	result.Success = true
	return result
}
