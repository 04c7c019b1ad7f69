package filtering

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/jhunter/agent/internal/jobs"
)

type dedupeFilter struct{}

// NewDedupe creates a filter that removes listings sharing a URL. Boards
// often return the same posting under several searches.
func NewDedupe() Filter {
	return &dedupeFilter{}
}

func (f *dedupeFilter) Name() string { return "dedupe" }

func (f *dedupeFilter) Apply(listings []*jobs.Listing) ([]*jobs.Listing, []string, error) {
	seen := mapset.NewSet[string]()
	kept := make([]*jobs.Listing, 0, len(listings))
	var dropped []string

	for _, listing := range listings {
		if listing == nil {
			continue
		}
		if !seen.Add(listing.URL) {
			dropped = append(dropped, listing.URL)
			continue
		}
		kept = append(kept, listing)
	}

	return kept, dropped, nil
}

type companiesFilter struct {
	blocked mapset.Set[string]
}

// NewExcludeCompanies creates a filter that removes listings from the given
// companies. Matching is case-insensitive.
func NewExcludeCompanies(companies []string) Filter {
	blocked := mapset.NewSet[string]()
	for _, company := range companies {
		if company = strings.ToLower(strings.TrimSpace(company)); company != "" {
			blocked.Add(company)
		}
	}
	return &companiesFilter{blocked: blocked}
}

func (f *companiesFilter) Name() string { return "exclude_companies" }

func (f *companiesFilter) Apply(listings []*jobs.Listing) ([]*jobs.Listing, []string, error) {
	if f.blocked.Cardinality() == 0 {
		return listings, nil, nil
	}

	kept := make([]*jobs.Listing, 0, len(listings))
	var dropped []string

	for _, listing := range listings {
		if listing == nil {
			continue
		}
		if f.blocked.Contains(strings.ToLower(strings.TrimSpace(listing.Company))) {
			dropped = append(dropped, listing.URL)
			continue
		}
		kept = append(kept, listing)
	}

	return kept, dropped, nil
}

type excludeFileFilter struct {
	path string
}

// NewExcludeFile creates a filter that removes listings whose URL appears
// in the given file, one URL per line. Lines starting with # are ignored.
func NewExcludeFile(path string) Filter {
	return &excludeFileFilter{path: strings.TrimSpace(path)}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Apply(listings []*jobs.Listing) ([]*jobs.Listing, []string, error) {
	if f.path == "" {
		return listings, nil, nil
	}

	blocked, err := loadExcludedURLs(f.path)
	if err != nil {
		return nil, nil, err
	}
	if blocked.Cardinality() == 0 {
		return listings, nil, nil
	}

	kept := make([]*jobs.Listing, 0, len(listings))
	var dropped []string

	for _, listing := range listings {
		if listing == nil {
			continue
		}
		if blocked.Contains(listing.URL) {
			dropped = append(dropped, listing.URL)
			continue
		}
		kept = append(kept, listing)
	}

	return kept, dropped, nil
}

func loadExcludedURLs(path string) (mapset.Set[string], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclude file: %w", err)
	}
	defer file.Close()

	urls := mapset.NewSet[string]()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls.Add(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read exclude file: %w", err)
	}

	return urls, nil
}
