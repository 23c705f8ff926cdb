package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/ogurasousui/seller-registry/internal/core/department"
	"github.com/ogurasousui/seller-registry/internal/core/seller"
)

const dateLayout = "2006-01-02"

type departmentStore interface {
	FindByID(ctx context.Context, id int64) (*department.Department, bool, error)
	FindAll(ctx context.Context) ([]*department.Department, error)
}

type cli struct {
	sellers     seller.Repository
	departments departmentStore
	out         io.Writer
}

func (c *cli) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "list":
		sellers, err := c.sellers.FindAll(ctx)
		if err != nil {
			return err
		}
		return c.printSellers(sellers)
	case "get":
		id, err := singleID(args)
		if err != nil {
			return err
		}
		found, ok, err := c.sellers.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(output(c.out), "seller %d not found\n", id)
			return nil
		}
		return c.printSellers([]*seller.Seller{found})
	case "by-dept":
		id, err := singleID(args)
		if err != nil {
			return err
		}
		dep, ok, err := c.departments.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(output(c.out), "department %d not found\n", id)
			return nil
		}
		sellers, err := c.sellers.FindByDepartment(ctx, dep)
		if err != nil {
			return err
		}
		return c.printSellers(sellers)
	case "insert":
		s, err := parseSellerFlags(command, args, false)
		if err != nil {
			return err
		}
		if err := c.sellers.Insert(ctx, s); err != nil {
			return err
		}
		fmt.Fprintf(output(c.out), "inserted seller %d\n", s.ID)
		return nil
	case "update":
		s, err := parseSellerFlags(command, args, true)
		if err != nil {
			return err
		}
		if err := c.sellers.Update(ctx, s); err != nil {
			return err
		}
		fmt.Fprintf(output(c.out), "updated seller %d\n", s.ID)
		return nil
	case "delete":
		id, err := singleID(args)
		if err != nil {
			return err
		}
		if err := c.sellers.DeleteByID(ctx, id); err != nil {
			return err
		}
		fmt.Fprintf(output(c.out), "deleted seller %d\n", id)
		return nil
	case "departments":
		deps, err := c.departments.FindAll(ctx)
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(output(c.out), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME")
		for _, d := range deps {
			fmt.Fprintf(w, "%d\t%s\n", d.ID, d.Name)
		}
		return w.Flush()
	default:
		return errUsage
	}
}

func (c *cli) printSellers(sellers []*seller.Seller) error {
	w := tabwriter.NewWriter(output(c.out), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tBIRTH DATE\tBASE SALARY\tDEPARTMENT")
	for _, s := range sellers {
		salary := "-"
		if s.BaseSalary != nil {
			salary = strconv.FormatFloat(*s.BaseSalary, 'f', 2, 64)
		}
		dep := "-"
		if s.Department != nil {
			dep = fmt.Sprintf("%s (%d)", s.Department.Name, s.Department.ID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.Email, s.BirthDate.Format(dateLayout), salary, dep)
	}
	return w.Flush()
}

func singleID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}

// parseSellerFlags は未指定の項目を空のまま残し、欠落の判定をリポジトリに委ねます。
func parseSellerFlags(command string, args []string, withID bool) (*seller.Seller, error) {
	fs := flag.NewFlagSet(command, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		id     = fs.Int64("id", 0, "seller id")
		name   = fs.String("name", "", "seller name")
		email  = fs.String("email", "", "seller email")
		birth  = fs.String("birth", "", "birth date (YYYY-MM-DD)")
		salary = fs.String("salary", "", "base salary")
		dept   = fs.Int64("dept", 0, "department id")
	)
	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%s: %w", command, err)
	}

	s := &seller.Seller{Name: *name, Email: *email}
	if withID {
		s.ID = *id
	}

	if *birth != "" {
		t, err := time.ParseInLocation(dateLayout, *birth, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid birth date %q", command, *birth)
		}
		s.BirthDate = t
	}

	if *salary != "" {
		v, err := strconv.ParseFloat(*salary, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid salary %q", command, *salary)
		}
		s.BaseSalary = &v
	}

	if *dept != 0 {
		s.Department = &department.Department{ID: *dept}
	}

	return s, nil
}

func output(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
