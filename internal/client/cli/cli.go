package cli

import (
	"fmt"
	"os"
	"strings"

	clientapi "github.com/edudesk/edudesk/internal/client/api"
	"github.com/edudesk/edudesk/internal/client/iocli"
	"github.com/edudesk/edudesk/internal/client/school"
	"github.com/edudesk/edudesk/internal/client/session"
)

// Passwords группирует источники пароля, заданные при запуске
type Passwords struct {
	FromFile string
	FromArgs string
}

// Cli связывает команды с сервисами клиента
type Cli struct {
	io          iocli.IO
	apiClient   *clientapi.Client
	store       *session.Store
	coordinator *session.Coordinator
	probe       *session.Probe
	guard       *session.Guard
	school      *school.Service
}

// New создает CLI поверх собранных сервисов
func New(
	io iocli.IO,
	apiClient *clientapi.Client,
	store *session.Store,
	coordinator *session.Coordinator,
	probe *session.Probe,
	guard *session.Guard,
	schoolService *school.Service,
) *Cli {
	return &Cli{
		io:          io,
		apiClient:   apiClient,
		store:       store,
		coordinator: coordinator,
		probe:       probe,
		guard:       guard,
		school:      schoolService,
	}
}

// getPassword retrieves the login password from various sources with priority:
// 1. Environment variable EDUDESK_PASSWORD
// 2. File specified in passwords.FromFile
// 3. Command-line parameter passwords.FromArgs
// 4. Interactive prompt (fallback)
func (c *Cli) getPassword(passwords Passwords) (string, error) {
	// Priority 1: Environment variable
	if envPassword := os.Getenv("EDUDESK_PASSWORD"); envPassword != "" {
		return envPassword, nil
	}

	// Priority 2: File
	if passwords.FromFile != "" {
		content, err := os.ReadFile(passwords.FromFile)
		if err != nil {
			return "", fmt.Errorf("failed to read password file: %w", err)
		}
		// Убираем trailing newline/whitespace
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", fmt.Errorf("password file is empty")
		}
		return password, nil
	}

	// Priority 3: CLI parameter
	if passwords.FromArgs != "" {
		return passwords.FromArgs, nil
	}

	// Priority 4: Interactive prompt (fallback)
	password, err := c.io.ReadPassword("Password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read password from stdin: %w", err)
	}
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	return password, nil
}

func PrintUsage() {
	fmt.Println("EduDesk Admin Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  edudesk [OPTIONS] COMMAND")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version              Show version information")
	fmt.Println("  --server URL           Server URL (default: http://localhost:8080)")
	fmt.Println("  --db PATH              Path to local database (default: edudesk-client.db)")
	fmt.Println("  --password PASSWORD    Password (not recommended, use env var or file)")
	fmt.Println("  --password-file PATH   Path to file containing password")
	fmt.Println()
	fmt.Println("Password Priority (highest to lowest):")
	fmt.Println("  1. EDUDESK_PASSWORD environment variable")
	fmt.Println("  2. --password-file (file path)")
	fmt.Println("  3. --password (command line)")
	fmt.Println("  4. Interactive prompt (fallback)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login                   Login to server")
	fmt.Println("  logout                  Logout from server")
	fmt.Println("  status                  Show authentication status")
	fmt.Println("  whoami                  Ask the server who owns the current session")
	fmt.Println("  students list           List students")
	fmt.Println("  students add            Add a student admission request")
	fmt.Println("  students remove <id>    Remove a student")
	fmt.Println("  students photo <id> <file>  Upload a student photo")
	fmt.Println("  teachers list           List teachers")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  # Interactive password prompt")
	fmt.Println("  edudesk login")
	fmt.Println("  edudesk students list")
	fmt.Println()
	fmt.Println("  # Using environment variable (recommended)")
	fmt.Println("  export EDUDESK_PASSWORD='mySecretPassword123'")
	fmt.Println("  edudesk login")
	fmt.Println()
	fmt.Println("  # Using password file (for automation)")
	fmt.Println("  echo 'mySecretPassword123' > ~/.edudesk-password")
	fmt.Println("  chmod 600 ~/.edudesk-password")
	fmt.Println("  edudesk --password-file ~/.edudesk-password login")
	fmt.Println()
	fmt.Println("  # Other examples")
	fmt.Println("  edudesk students add")
	fmt.Println("  edudesk students photo 42 ./photo.jpg")
	fmt.Println("  edudesk --server https://example.com login")
}
