package browser

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/jhunter/agent/internal/ai"
	"github.com/jhunter/agent/internal/jobs"
)

const (
	// navigationTimeoutMs bounds how long one page load may take.
	navigationTimeoutMs = 60_000

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Driver opens job application pages in a real browser, asks the model to
// map the visible form, and fills it in. It never submits anything.
type Driver struct {
	ai       ai.Client
	logger   *zap.Logger
	headless bool
}

func NewDriver(client ai.Client, headless bool, logger *zap.Logger) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Driver{ai: client, logger: logger, headless: headless}
}

// Apply fills the application form for one listing. All failures come back
// as a failed result so the caller's loop over listings keeps going.
func (d *Driver) Apply(ctx context.Context, listing *jobs.Listing, profile *jobs.Profile, resume jobs.ResumeFile) jobs.ApplyResult {
	filled, err := d.fillListing(ctx, listing, profile, resume)
	if err != nil {
		d.logger.Warn("auto-apply failed",
			zap.String("url", listing.URL),
			zap.Error(err),
		)
		return jobs.ApplyResult{Status: jobs.ApplyFailed, Message: err.Error()}
	}

	return jobs.ApplyResult{
		Status:  jobs.ApplySucceeded,
		Message: fmt.Sprintf("filled %d fields, submission left to you", filled),
	}
}

func (d *Driver) fillListing(ctx context.Context, listing *jobs.Listing, profile *jobs.Profile, resume jobs.ResumeFile) (int, error) {
	pw, err := playwright.Run()
	if err != nil {
		return 0, fmt.Errorf("start playwright: %w", err)
	}
	defer pw.Stop()

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(d.headless),
	})
	if err != nil {
		return 0, fmt.Errorf("launch browser: %w", err)
	}
	defer browser.Close()

	browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(userAgent),
	})
	if err != nil {
		return 0, fmt.Errorf("create browser context: %w", err)
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		return 0, fmt.Errorf("open page: %w", err)
	}

	if _, err := page.Goto(listing.URL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(navigationTimeoutMs),
	}); err != nil {
		return 0, fmt.Errorf("navigate to %s: %w", listing.URL, err)
	}

	raw, err := page.Evaluate(snapshotScript)
	if err != nil {
		return 0, fmt.Errorf("snapshot page: %w", err)
	}

	elements, err := decodeSnapshot(raw)
	if err != nil {
		return 0, err
	}
	if len(elements) == 0 {
		return 0, fmt.Errorf("no form controls found on %s", listing.URL)
	}

	mapping, err := d.mapFields(ctx, elements, profile)
	if err != nil {
		return 0, err
	}

	d.logger.Debug("filling application form",
		zap.String("url", listing.URL),
		zap.Int("controls", len(elements)),
	)

	return fillForm(page, mapping, profile, resume, listing.CoverLetter)
}

func (d *Driver) mapFields(ctx context.Context, elements []Element, profile *jobs.Profile) (*FieldMapping, error) {
	snapshot, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot for model: %w", err)
	}

	available, err := json.Marshal(profile)
	if err != nil {
		return nil, fmt.Errorf("encode profile for model: %w", err)
	}

	user := fmt.Sprintf("Candidate data available for filling:\n%s\n\nForm controls on the page:\n%s", available, snapshot)

	raw, err := d.ai.Complete(ctx, ai.Request{
		System: mappingSystemPrompt,
		User:   user,
	})
	if err != nil {
		return nil, fmt.Errorf("map form fields: %w", err)
	}

	return parseMapping(raw)
}
