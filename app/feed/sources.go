package feed

import (
	"bufio"
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadSources reads the feed source list. YAML files (.yml, .yaml) carry a
// "feeds" list with optional filters; any other file is read as one URL per
// line, skipping blank lines and lines starting with '#'.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var sources []Source
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		sources, err = parseSourceYAML(data)
	default:
		sources, err = parseSourceLines(data)
	}
	if err != nil {
		return nil, err
	}

	for i := range sources {
		if sources[i].Name == "" {
			sources[i].Name = sourceName(sources[i].URL)
		}
		if err := validateSource(sources[i]); err != nil {
			return nil, fmt.Errorf("invalid source at index %d: %w", i, err)
		}
	}

	return sources, nil
}

func parseSourceYAML(data []byte) ([]Source, error) {
	var file sourceFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return file.Feeds, nil
}

func parseSourceLines(data []byte) ([]Source, error) {
	var sources []Source

	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		sources = append(sources, Source{URL: line})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read source list: %w", err)
	}

	return sources, nil
}

func validateSource(source Source) error {
	if source.URL == "" {
		return fmt.Errorf("feed URL is required")
	}

	u, err := url.Parse(source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("feed URL must be an absolute http(s) URL: %s", source.URL)
	}

	for i, filter := range source.Filters {
		if !filterFields[filter.Field] {
			return fmt.Errorf("invalid filter field at index %d: %s", i, filter.Field)
		}
		if len(filter.Includes) == 0 && len(filter.Excludes) == 0 {
			return fmt.Errorf("filter at index %d must have at least one include or exclude rule", i)
		}
	}

	return nil
}

func sourceName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Host != "" {
		return u.Host
	}
	return rawURL
}
