package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/TWRT/teamwork-tasks/internal/models"
	"github.com/TWRT/teamwork-tasks/internal/service"
)

// EmailConfigurer stores new sender credentials.
type EmailConfigurer func(address, secret string) error

// Shell is the numbered-menu front end. It reads one line per prompt.
type Shell struct {
	in        *bufio.Reader
	inErr     error
	out       io.Writer
	registry  *service.TaskRegistry
	notifier  *service.Notifier
	configure EmailConfigurer
	logger    zerolog.Logger
}

func New(
	in io.Reader,
	out io.Writer,
	registry *service.TaskRegistry,
	notifier *service.Notifier,
	configure EmailConfigurer,
	logger zerolog.Logger,
) *Shell {
	return &Shell{
		in:        bufio.NewReader(in),
		out:       out,
		registry:  registry,
		notifier:  notifier,
		configure: configure,
		logger:    logger,
	}
}

var errExit = errors.New("exit")

// Run loops until the user picks Exit or input ends.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.displayMenu()
		choice, ok := s.prompt("Enter your choice: ")
		if !ok {
			return s.inErr
		}
		if err := s.handleChoice(ctx, choice); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			if errors.Is(err, io.EOF) {
				return s.inErr
			}
			return err
		}
	}
}

func (s *Shell) displayMenu() {
	s.println("\n--- Task Management System ---")
	s.println("1. Add Task")
	s.println("2. Update Task Status")
	s.println("3. View Tasks by Priority")
	s.println("4. View Upcoming Deadlines")
	s.println("5. Generate To-Do List")
	s.println("6. Add Team Member")
	s.println("7. Generate Productivity Report")
	s.println("8. Send Reminders")
	s.println("9. Configure Email")
	s.println("10. Exit")
}

func (s *Shell) handleChoice(ctx context.Context, choice string) error {
	switch strings.TrimSpace(choice) {
	case "1":
		return s.addTask(ctx)
	case "2":
		return s.updateTaskStatus(ctx)
	case "3":
		return s.viewTasksByPriority()
	case "4":
		return s.viewUpcomingDeadlines()
	case "5":
		return s.generateToDoList()
	case "6":
		return s.addTeamMember(ctx)
	case "7":
		s.generateProductivityReport()
		return nil
	case "8":
		s.sendReminders(ctx)
		return nil
	case "9":
		return s.configureEmail()
	case "10":
		s.println("Exiting...")
		return errExit
	default:
		s.println("Invalid choice. Please try again.")
		return nil
	}
}

// ask is prompt that turns end of input into io.EOF.
func (s *Shell) ask(label string) (string, error) {
	line, ok := s.prompt(label)
	if !ok {
		return "", io.EOF
	}
	return line, nil
}

func (s *Shell) prompt(label string) (string, bool) {
	fmt.Fprint(s.out, label)
	line, err := s.in.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.inErr = err
			return "", false
		}
		if line == "" {
			return "", false
		}
	}
	return strings.TrimRight(line, "\r\n"), true
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

func (s *Shell) addTask(ctx context.Context) error {
	answers := make([]string, 0, 5)
	for _, label := range []string{
		"Enter task title: ",
		"Enter task description: ",
		"Enter deadline (YYYY-MM-DD): ",
		"Enter priority (LOW/MEDIUM/HIGH): ",
		"Enter assigned team member: ",
	} {
		v, err := s.ask(label)
		if err != nil {
			return err
		}
		answers = append(answers, v)
	}

	deadline, err := models.ParseDate(answers[2])
	if err != nil {
		s.printf("Error: %v\n", err)
		return nil
	}
	priority, err := models.ParsePriority(answers[3])
	if err != nil {
		s.printf("Error: %v\n", err)
		return nil
	}

	task, err := s.registry.AddTask(ctx, service.AddTaskParams{
		Title:       answers[0],
		Description: answers[1],
		Deadline:    deadline,
		Priority:    priority,
		AssignedTo:  strings.TrimSpace(answers[4]),
	})
	if err != nil {
		s.printf("Error: %v\n", err)
		return nil
	}
	s.printf("Task added successfully. Task ID: %d\n", task.ID)
	return nil
}

func (s *Shell) updateTaskStatus(ctx context.Context) error {
	rawID, err := s.ask("Enter task ID: ")
	if err != nil {
		return err
	}
	status, err := s.ask("Enter new status: ")
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil {
		s.println("Error: invalid task ID.")
		return nil
	}
	if err := s.registry.UpdateTaskStatus(ctx, id, status); err != nil {
		s.printf("Error: %v\n", err)
		return nil
	}
	s.println("Task status updated successfully.")
	return nil
}

func (s *Shell) viewTasksByPriority() error {
	raw, err := s.ask("Enter priority (LOW/MEDIUM/HIGH): ")
	if err != nil {
		return err
	}
	priority, err := models.ParsePriority(raw)
	if err != nil {
		s.println("Invalid priority.")
		return nil
	}
	s.printTaskLines(s.registry.TasksByPriority(priority))
	return nil
}

func (s *Shell) viewUpcomingDeadlines() error {
	raw, err := s.ask("Enter number of days to look ahead: ")
	if err != nil {
		return err
	}
	days, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.println("Error: invalid number of days.")
		return nil
	}
	s.printTaskLines(s.registry.UpcomingDeadlines(days))
	return nil
}

func (s *Shell) printTaskLines(tasks []models.Task) {
	for _, t := range tasks {
		s.printf("ID: %d, Title: %s, Deadline: %s, Assigned to: %s\n",
			t.ID, t.Title, models.FormatDate(t.Deadline), t.AssignedTo)
	}
}

func (s *Shell) generateToDoList() error {
	name, err := s.ask("Enter team member name: ")
	if err != nil {
		return err
	}
	for _, t := range s.registry.ToDoList(strings.TrimSpace(name)) {
		s.printf("ID: %d, Title: %s, Priority: %s, Deadline: %s\n",
			t.ID, t.Title, t.Priority, models.FormatDate(t.Deadline))
	}
	return nil
}

func (s *Shell) addTeamMember(ctx context.Context) error {
	name, err := s.ask("Enter team member name: ")
	if err != nil {
		return err
	}
	email, err := s.ask("Enter team member email: ")
	if err != nil {
		return err
	}

	name = strings.TrimSpace(name)
	if _, err := s.registry.AddTeamMember(ctx, name, strings.TrimSpace(email)); err != nil {
		s.printf("Error: %v\n", err)
		return nil
	}
	s.printf("Team member %s added successfully.\n", name)
	return nil
}

func (s *Shell) generateProductivityReport() {
	report := s.registry.ProductivityReport()
	for _, m := range s.registry.Members() {
		stats := report[m.Name]
		s.printf("\nTeam Member: %s\n", m.Name)
		s.printf("Completed Tasks: %d\n", stats.CompletedTasks)
		s.printf("Total Tasks: %d\n", stats.TotalTasks)
		s.printf("Completion Rate: %.2f%%\n", stats.CompletionRate*100)
		s.printf("Workload: %d\n", stats.Workload)
	}
}

func (s *Shell) sendReminders(ctx context.Context) {
	if !s.notifier.Configured() {
		s.println("Email configuration is not set up. Please use the 'Configure Email' option in the main menu.")
		return
	}

	results := s.notifier.SendReminders(ctx)
	for _, r := range results {
		if r.Status == service.ReminderSent {
			s.printf("Reminder email sent to %s\n", r.Task.AssignedTo)
			continue
		}
		s.printf("Failed to send email for task %d: %v\n", r.Task.ID, r.Err)
	}
	s.printf("Reminders processed for %d task(s) due within the reminder window.\n", len(results))
}

func (s *Shell) configureEmail() error {
	address, err := s.ask("Enter sender email: ")
	if err != nil {
		return err
	}
	secret, err := s.ask("Enter sender password: ")
	if err != nil {
		return err
	}
	if err := s.configure(strings.TrimSpace(address), secret); err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to configure email")
		s.printf("Error: %v\n", err)
		return nil
	}
	s.println("Email configuration saved.")
	return nil
}
