package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Credentials is the parsed local credentials file. Values are never logged;
// callers should only report which keys are present or missing.
type Credentials map[string]string

// LoadCredentials parses a dotenv-style file (KEY=VALUE per line, # comments,
// optional quotes). A missing file returns an empty set rather than an error:
// absence only matters to the remote backend, which checks Required itself.
func LoadCredentials(path string) (Credentials, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	defer f.Close()

	creds := Credentials{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		value = strings.Trim(value, `"'`)
		if key == "" {
			continue
		}
		creds[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan credentials file: %w", err)
	}
	return creds, nil
}

// Missing returns the required keys that are absent or empty, in the order
// they were required.
func (c Credentials) Missing(required []string) []string {
	var missing []string
	for _, key := range required {
		if c[key] == "" {
			missing = append(missing, key)
		}
	}
	return missing
}
