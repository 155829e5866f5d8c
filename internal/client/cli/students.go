package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/edudesk/edudesk/pkg/api"
)

func (c *Cli) runStudents(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: edudesk students <list|add|remove|photo>")
	}

	switch args[0] {
	case "list":
		return c.runStudentsList(ctx)
	case "add":
		return c.runStudentsAdd(ctx)
	case "remove":
		return c.runStudentsRemove(ctx, args[1:])
	case "photo":
		return c.runStudentsPhoto(ctx, args[1:])
	default:
		return fmt.Errorf("unknown students subcommand: %s", args[0])
	}
}

func (c *Cli) runStudentsList(ctx context.Context) error {
	return c.guard.Protect(ctx, func(ctx context.Context, _ string) error {
		students, err := c.school.Students(ctx)
		if err != nil {
			return err
		}

		if len(students) == 0 {
			c.io.Println("No students found.")
			return nil
		}

		c.io.Printf("%-6s %-24s %-8s %-12s %-10s\n", "ID", "NAME", "CLASS", "ADMISSION", "STATUS")
		for _, s := range students {
			c.io.Printf("%-6d %-24s %-8s %-12s %-10s\n", s.ID, s.Name, s.ClassName, s.AdmissionNo, s.Status)
		}
		return nil
	})
}

func (c *Cli) runStudentsAdd(ctx context.Context) error {
	c.io.Println("=== New Admission Request ===")

	name, err := c.io.ReadInput("Name: ")
	if err != nil {
		return fmt.Errorf("failed to read name: %w", err)
	}
	email, err := c.io.ReadInput("Email (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	className, err := c.io.ReadInput("Class (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read class: %w", err)
	}
	admissionNo, err := c.io.ReadInput("Admission number (optional): ")
	if err != nil {
		return fmt.Errorf("failed to read admission number: %w", err)
	}

	return c.guard.Protect(ctx, func(ctx context.Context, _ string) error {
		student, err := c.school.AddStudent(ctx, api.CreateStudentRequest{
			Name:        name,
			Email:       email,
			ClassName:   className,
			AdmissionNo: admissionNo,
		})
		if err != nil {
			return err
		}

		c.io.Printf("✓ Student created with ID %d (status: %s)\n", student.ID, student.Status)
		return nil
	})
}

func (c *Cli) runStudentsRemove(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: edudesk students remove <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid student id %q: %w", args[0], err)
	}

	return c.guard.Protect(ctx, func(ctx context.Context, _ string) error {
		if err := c.school.RemoveStudent(ctx, id); err != nil {
			return err
		}
		c.io.Printf("✓ Student %d removed\n", id)
		return nil
	})
}

func (c *Cli) runStudentsPhoto(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: edudesk students photo <id> <file>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid student id %q: %w", args[0], err)
	}

	file, err := os.Open(args[1])
	if err != nil {
		return fmt.Errorf("failed to open photo: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return c.guard.Protect(ctx, func(ctx context.Context, _ string) error {
		student, err := c.school.UploadPhoto(ctx, id, filepath.Base(args[1]), file)
		if err != nil {
			return err
		}
		c.io.Printf("✓ Photo uploaded: %s\n", student.PhotoPath)
		return nil
	})
}
