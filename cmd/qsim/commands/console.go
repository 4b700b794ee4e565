package commands

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/c-bata/go-prompt"
	"github.com/panyam/qsim/console"
	"github.com/spf13/cobra"
)

// Global variables for the prompt context
var (
	currentSession *console.Session
	commandHistory []string
	historyFile    string
)

// Console command with go-prompt
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the interactive qsim console",
	Long: `Start an interactive REPL for exploring M/M/1/K behavior.

The console provides:
- Interactive REPL with tab completion and command history
- Rich auto-completion with descriptions
- Arrow key navigation
- Recipe file execution support

Example:
  qsim console

Then in the REPL:
  qsim> set ia 0.02
  qsim> run
  qsim> theory`,
	Run: func(cmd *cobra.Command, args []string) {
		currentSession = console.NewSession(os.Stdout)

		fmt.Printf("💬 Type 'help' for available commands, Ctrl+D to quit\n\n")

		// Initialize command history
		initializeHistory()

		// Setup signal handling to save history on exit
		setupSignalHandling()

		startREPL()
	},
}

// Command structure for better organization
type commandInfo struct {
	Name        string
	Description string
	Usage       string
	MinArgs     int
}

var commands = []commandInfo{
	{Name: "help", Description: "Show help message", Usage: "help", MinArgs: 0},
	{Name: "set", Description: "Set a run parameter", Usage: "set <param> <value>", MinArgs: 2},
	{Name: "run", Description: "Run one simulation with the current parameters", Usage: "run", MinArgs: 0},
	{Name: "theory", Description: "Show the closed form M/M/1/K results", Usage: "theory", MinArgs: 0},
	{Name: "load", Description: "Load a sweep scenario from a YAML file", Usage: "load <scenario.yaml>", MinArgs: 1},
	{Name: "sweep", Description: "Run the scenario grid", Usage: "sweep", MinArgs: 0},
	{Name: "state", Description: "Show current session state", Usage: "state", MinArgs: 0},
	{Name: "reset", Description: "Restore the starting parameters", Usage: "reset", MinArgs: 0},
	{Name: "execute", Description: "Execute commands from a recipe file", Usage: "execute <recipe_file>", MinArgs: 1},
	{Name: "exit", Description: "Exit the console", Usage: "exit", MinArgs: 0},
	{Name: "quit", Description: "Exit the console", Usage: "quit", MinArgs: 0},
}

func startREPL() {
	p := prompt.New(
		executor,
		completer,
		prompt.OptionTitle("QSIM Console"),
		prompt.OptionPrefix(getPromptPrefix()),
		prompt.OptionLivePrefix(getLivePrefix),
		prompt.OptionHistory(commandHistory),
		prompt.OptionPrefixTextColor(prompt.Yellow),
		prompt.OptionSuggestionBGColor(prompt.DarkGray),
		prompt.OptionSelectedSuggestionBGColor(prompt.LightGray),
		prompt.OptionSelectedSuggestionTextColor(prompt.Black),
		prompt.OptionDescriptionBGColor(prompt.DarkGray),
		prompt.OptionDescriptionTextColor(prompt.White),
		prompt.OptionCompletionWordSeparator(" "),
		// Control auto-suggest behavior
		prompt.OptionMaxSuggestion(10),
	)
	p.Run()

	// Save history on exit
	saveHistory()
}

func getPromptPrefix() string {
	if currentSession == nil {
		return "qsim> "
	}

	// Show the current capacity in the prompt
	return fmt.Sprintf("qsim[K=%d]> ", currentSession.Config().Capacity)
}

func getLivePrefix() (string, bool) {
	return getPromptPrefix(), true
}

// History management functions
func setupSignalHandling() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Println("\n\n👋 Saving history and exiting...")
		saveHistory()
		os.Exit(0)
	}()
}

func initializeHistory() {
	// Get history file path
	historyFile = getHistoryFilePath()

	// Load existing history
	loadHistory()

	fmt.Printf("📚 Command history loaded from: %s (%d commands)\n", historyFile, len(commandHistory))
}

func getHistoryFilePath() string {
	// Try to get user's home directory
	usr, err := user.Current()
	if err != nil {
		// Fallback to current directory
		return ".qsim_history"
	}

	// Use ~/.qsim_history
	return filepath.Join(usr.HomeDir, ".qsim_history")
}

func loadHistory() {
	file, err := os.Open(historyFile)
	if err != nil {
		// File doesn't exist yet, start with empty history
		commandHistory = []string{}
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	history := []string{}

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			history = append(history, line)
		}
	}

	commandHistory = history
}

func saveHistory() {
	if historyFile == "" {
		return
	}

	// Limit history size to last 1000 commands
	maxHistory := 1000
	startIdx := 0
	if len(commandHistory) > maxHistory {
		startIdx = len(commandHistory) - maxHistory
	}

	file, err := os.Create(historyFile)
	if err != nil {
		fmt.Printf("⚠️  Warning: Could not save command history: %v\n", err)
		return
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for i := startIdx; i < len(commandHistory); i++ {
		writer.WriteString(commandHistory[i] + "\n")
	}
	writer.Flush()

	fmt.Printf("📚 Command history saved to: %s (%d commands)\n", historyFile, len(commandHistory)-startIdx)
}

func completer(d prompt.Document) []prompt.Suggest {
	// Get the current line and word
	line := d.CurrentLine()
	word := d.GetWordBeforeCursor()
	args := strings.Fields(line)

	// Don't show suggestions for empty input unless user explicitly pressed Tab
	if line == "" {
		return []prompt.Suggest{}
	}

	// If we're at the beginning, suggest commands (only if there's some input)
	if len(args) <= 1 && word != "" {
		return getCommandSuggestions(word)
	}

	// Context-aware completions based on the command
	command := args[0]
	argIndex := len(args) - 1
	if strings.HasSuffix(line, " ") {
		argIndex++
	}

	switch command {
	case "set":
		if argIndex == 1 {
			return getParameterSuggestions(word)
		} else if argIndex == 2 {
			// Could suggest common values based on the parameter
			return getValueSuggestions(args[1])
		}
	case "load":
		if argIndex == 1 {
			return getFileSuggestions(word, ".yaml")
		}
	case "execute":
		if argIndex == 1 {
			return getFileSuggestions(word, ".txt")
		}
	}

	return []prompt.Suggest{}
}

func getCommandSuggestions(prefix string) []prompt.Suggest {
	suggestions := []prompt.Suggest{}
	for _, cmd := range commands {
		suggestions = append(suggestions, prompt.Suggest{
			Text:        cmd.Name,
			Description: cmd.Description,
		})
	}

	return prompt.FilterHasPrefix(suggestions, prefix, true)
}

func getParameterSuggestions(prefix string) []prompt.Suggest {
	suggestions := []prompt.Suggest{}

	// Run parameters the session understands
	params := []struct {
		name string
		desc string
	}{
		{"ia", "Mean interarrival time in seconds"},
		{"service", "Mean service time in seconds"},
		{"capacity", "Station slots, the server's included"},
		{"customers", "Arrivals to generate"},
		{"seed", "Random number generator seed"},
		{"trace", "Echo customer events (on/off)"},
	}

	for _, p := range params {
		suggestions = append(suggestions, prompt.Suggest{
			Text:        p.name,
			Description: p.desc,
		})
	}

	return prompt.FilterHasPrefix(suggestions, prefix, true)
}

func getValueSuggestions(param string) []prompt.Suggest {
	// Suggest common values based on the parameter
	switch strings.ToLower(param) {
	case "ia", "interarrival", "a":
		return []prompt.Suggest{
			{Text: "0.2", Description: "Light load"},
			{Text: "0.02", Description: "Half load against service 0.01"},
			{Text: "0.0105", Description: "Near saturation"},
			{Text: "0.005", Description: "Overload"},
		}
	case "capacity", "k":
		return []prompt.Suggest{
			{Text: "0", Description: "No slots, every arrival dropped"},
			{Text: "1", Description: "Server only, no waiting room"},
			{Text: "10", Description: "Default"},
			{Text: "50", Description: "Large station"},
		}
	case "customers", "n":
		return []prompt.Suggest{
			{Text: "100", Description: "Quick test"},
			{Text: "1000", Description: "Default"},
			{Text: "10000", Description: "Extended run"},
			{Text: "20000", Description: "Long run"},
		}
	case "trace":
		return []prompt.Suggest{
			{Text: "on", Description: "Echo every customer event"},
			{Text: "off", Description: "Summary only"},
		}
	}
	return []prompt.Suggest{}
}

func getFileSuggestions(prefix string, extension string) []prompt.Suggest {
	suggestions := []prompt.Suggest{}

	// Start from current directory or the directory in prefix
	searchDir := "."

	if strings.Contains(prefix, "/") {
		dir := filepath.Dir(prefix)
		searchDir = dir
	}

	// Read directory
	files, err := os.ReadDir(searchDir)
	if err != nil {
		return suggestions
	}

	for _, file := range files {
		name := file.Name()
		fullPath := filepath.Join(searchDir, name)
		if searchDir == "." {
			fullPath = name
		}

		// Include directories and files with the right extension
		if file.IsDir() {
			suggestions = append(suggestions, prompt.Suggest{
				Text:        fullPath + "/",
				Description: "Directory",
			})
		} else if extension == "" || strings.HasSuffix(name, extension) {
			info, _ := file.Info()
			size := float64(0)
			if info != nil {
				size = float64(info.Size()) / 1024
			}
			suggestions = append(suggestions, prompt.Suggest{
				Text:        fullPath,
				Description: fmt.Sprintf("File (%.1fKB)", size),
			})
		}
	}

	// Also suggest the bundled example scenario
	if extension == ".yaml" && strings.HasPrefix("examples/", prefix) {
		examplePaths := []string{
			"examples/sweep.yaml",
		}
		for _, path := range examplePaths {
			if strings.HasPrefix(path, prefix) {
				suggestions = append(suggestions, prompt.Suggest{
					Text:        path,
					Description: "Example scenario file",
				})
			}
		}
	}

	return prompt.FilterHasPrefix(suggestions, prefix, true)
}

func executor(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	// Add to history (avoid duplicates of the last command)
	if len(commandHistory) == 0 || commandHistory[len(commandHistory)-1] != line {
		commandHistory = append(commandHistory, line)
	}

	// Handle exit commands
	if line == "exit" || line == "quit" {
		fmt.Println("👋 Goodbye!")
		saveHistory()
		os.Exit(0)
	}

	// Execute console command
	if err := executeCommand(currentSession, line); err != nil {
		fmt.Printf("❌ Error: %v\n", err)
	}
}

func executeCommand(session *console.Session, line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	args := parts[1:]

	if err := checkUsage(command, args); err != nil {
		return err
	}

	switch command {
	case "help":
		showHelp()
		return nil

	case "set":
		if err := session.Set(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("✅ Set %s = %s\n", args[0], args[1])
		return nil

	case "run":
		return session.Run()

	case "theory":
		fmt.Print(session.Theory().String())
		return nil

	case "load":
		return session.Load(args[0])

	case "sweep":
		return session.Sweep()

	case "state":
		fmt.Printf("📊 Session state:\n%s", session.State())
		return nil

	case "reset":
		session.Reset()
		fmt.Println("✅ Session reset to the starting parameters")
		return nil

	case "execute":
		return executeRecipe(session, args[0])

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", command)
	}
}

func checkUsage(command string, args []string) error {
	for _, ci := range commands {
		if ci.Name == command && len(args) < ci.MinArgs {
			return fmt.Errorf("usage: %s", ci.Usage)
		}
	}
	return nil
}

func showHelp() {
	fmt.Printf(`Available commands:

  help                       Show this help message
  set <param> <value>        Set a run parameter (ia, service, capacity, customers, seed, trace)
  run                        Run one simulation with the current parameters
  theory                     Show the closed form M/M/1/K results
  load <scenario.yaml>       Load a sweep scenario
  sweep                      Run the scenario grid, one simulation per cell
  state                      Show current session state
  reset                      Restore the starting parameters
  execute <recipe_file>      Execute commands from a recipe file
  exit, quit                 Exit the console (or press Ctrl+D)

Navigation:
  ↑↓                         Navigate through command history (persistent across sessions)
  ←→                         Move cursor within line
  Tab                        Auto-complete commands, parameters and files
  Ctrl+A/E                   Jump to beginning/end of line
  Ctrl+K/U                   Delete to end/beginning of line
  Ctrl+W                     Delete word before cursor
  Ctrl+C                     Exit console (saves history)
  Ctrl+D                     Exit console

History:
  Commands are automatically saved to ~/.qsim_history
  Up to 1000 commands are preserved across console restarts

Examples:
  qsim> set ia 0.02
  qsim> set capacity 5
  qsim> run
  qsim> theory
  qsim> load examples/sweep.yaml
  qsim> sweep
  qsim> execute examples/demo.txt

`)
}

func executeRecipe(session *console.Session, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open recipe file '%s': %w", filePath, err)
	}
	defer file.Close()

	fmt.Printf("🍳 Executing recipe: %s\n", filePath)

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Handle special commands
		if strings.HasPrefix(line, "sleep ") {
			parts := strings.Fields(line)
			if len(parts) >= 2 {
				if duration, err := time.ParseDuration(parts[1]); err == nil {
					fmt.Printf("⏳ Sleeping for %s...\n", duration)
					time.Sleep(duration)
					continue
				}
			}
		}

		fmt.Printf("qsim[%d]> %s\n", lineNum, line)

		if err := executeCommand(session, line); err != nil {
			return fmt.Errorf("recipe failed at line %d: %w", lineNum, err)
		}

		// Small delay between commands for demo effect
		time.Sleep(100 * time.Millisecond)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading recipe file: %w", err)
	}

	fmt.Printf("✅ Recipe completed successfully\n")
	return nil
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
