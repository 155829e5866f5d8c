package cli

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGetPassword_FromEnvVar проверяет чтение пароля из переменной окружения
func TestGetPassword_FromEnvVar(t *testing.T) {
	// Setup
	cli := &Cli{}
	testPassword := "test_env_password_123"
	t.Setenv("EDUDESK_PASSWORD", testPassword)
	passwords := Passwords{
		FromFile: "",
		FromArgs: "",
	}
	// Execute
	password, err := cli.getPassword(passwords)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, testPassword, password)
}

// TestGetPassword_FromFile проверяет чтение пароля из файла
func TestGetPassword_FromFile(t *testing.T) {
	// Setup
	cli := &Cli{}
	testPassword := "test_file_password_456"

	// Создаем временный файл с паролем
	tmpfile, err := os.CreateTemp("", "password-*.txt")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Remove(tmpfile.Name()))
	}()

	_, err = tmpfile.WriteString(testPassword + "\n")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	passwords := Passwords{
		FromFile: tmpfile.Name(),
		FromArgs: "",
	}
	// Execute
	password, err := cli.getPassword(passwords)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, testPassword, password)
}

// TestGetPassword_FromCLIParam проверяет чтение пароля из CLI параметра
func TestGetPassword_FromCLIParam(t *testing.T) {
	// Setup
	cli := &Cli{}
	pass := Passwords{
		FromFile: "",
		FromArgs: "test_cli_password_789",
	}
	// Execute
	password, err := cli.getPassword(pass)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, pass.FromArgs, password)
}

// TestGetPassword_Priority проверяет приоритет источников
// Env var должен иметь приоритет над файлом и CLI параметром
func TestGetPassword_Priority(t *testing.T) {
	// Setup
	cli := &Cli{}
	envPassword := "env_password"
	filePassword := "file_password"
	cliPassword := "cli_password"

	// Создаем файл
	tmpfile, err := os.CreateTemp("", "password-*.txt")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Remove(tmpfile.Name()))
	}()
	_, err = tmpfile.WriteString(filePassword)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	t.Setenv("EDUDESK_PASSWORD", envPassword)
	pass := Passwords{
		FromFile: tmpfile.Name(),
		FromArgs: cliPassword,
	}
	// Execute - передаем все источники
	password, err := cli.getPassword(pass)

	// Assert - должен вернуться env var (наивысший приоритет)
	require.NoError(t, err)
	assert.Equal(t, envPassword, password)
}

// TestGetPassword_FileOverCLI проверяет что файл имеет приоритет над CLI
func TestGetPassword_FileOverCLI(t *testing.T) {
	// Setup
	cli := &Cli{}
	filePassword := "file_password_priority"
	cliPassword := "cli_password_lower"

	// Создаем файл
	tmpfile, err := os.CreateTemp("", "password-*.txt")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Remove(tmpfile.Name()))
	}()
	_, err = tmpfile.WriteString(filePassword)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	pass := Passwords{
		FromFile: tmpfile.Name(),
		FromArgs: cliPassword,
	}
	// Execute
	password, err := cli.getPassword(pass)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, filePassword, password)
}

// TestGetPassword_EmptyFile проверяет обработку пустого файла
func TestGetPassword_EmptyFile(t *testing.T) {
	cli := &Cli{}

	tmpfile, err := os.CreateTemp("", "password-*.txt")
	require.NoError(t, err)
	defer func() {
		require.NoError(t, os.Remove(tmpfile.Name()))
	}()
	_, err = tmpfile.WriteString("   \n")
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())

	_, err = cli.getPassword(Passwords{FromFile: tmpfile.Name()})
	assert.Error(t, err)
}

// TestGetPassword_MissingFile проверяет обработку несуществующего файла
func TestGetPassword_MissingFile(t *testing.T) {
	cli := &Cli{}
	_, err := cli.getPassword(Passwords{FromFile: "/nonexistent/password.txt"})
	assert.Error(t, err)
}
