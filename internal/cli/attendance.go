package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/store"
)

// NewAttendanceCommand creates the attendance command group.
func NewAttendanceCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attendance",
		Aliases: []string{"att"},
		Short:   "Register attendees and track their status",
	}
	cmd.AddCommand(newAttendanceRegisterCommand(rootOpts))
	cmd.AddCommand(newAttendanceListCommand(rootOpts))
	cmd.AddCommand(newAttendanceGetCommand(rootOpts))
	cmd.AddCommand(newAttendanceStatusCommand(rootOpts))
	return cmd
}

type registerOptions struct {
	name  string
	email string
}

func newAttendanceRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &registerOptions{}
	cmd := &cobra.Command{
		Use:   "register <event-id>",
		Short: "Register an attendee for an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			eventID, err := parseID(f, "event", args[0])
			if err != nil {
				return err
			}

			attendance := model.Attendance{AttendeeName: opts.name, AttendeeEmail: opts.email}
			if err := model.Validate(attendance); err != nil {
				return validationFailure(f, err)
			}

			return withApp(rootOpts, cmd, func(ctx context.Context, a *app, f *OutputFormatter) error {
				_, found, err := a.events.EventByID(ctx, eventID)
				if err != nil {
					return storageFailure(f, "get event", err)
				}
				if !found {
					return f.Fail(ExitFailure, ErrCodeNotFound, "event not found", map[string]int{"id": eventID}, nil)
				}

				created, err := a.attendances.RegisterAttendee(ctx, eventID, attendance)
				if err != nil && !errors.Is(err, store.ErrCounterNotPersisted) {
					return storageFailure(f, "register attendee", err)
				}
				if err != nil {
					a.logger.Warn("attendance stored without counter update", "id", created.ID, "error", err)
				}
				return f.Success(attendanceView(created))
			})
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "attendee name")
	cmd.Flags().StringVar(&opts.email, "email", "", "attendee email")
	return cmd
}

func newAttendanceListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <event-id>",
		Short: "List the attendees of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eventID, err := parseID(newFormatter(rootOpts, cmd), "event", args[0])
			if err != nil {
				return err
			}
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app, f *OutputFormatter) error {
				attendances, err := a.attendances.EventAttendees(ctx, eventID)
				if err != nil {
					return storageFailure(f, "list attendees", err)
				}
				return f.Success(attendanceList(attendances))
			})
		},
	}
}

func newAttendanceGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one registration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(newFormatter(rootOpts, cmd), "attendance", args[0])
			if err != nil {
				return err
			}
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app, f *OutputFormatter) error {
				attendance, found, err := a.attendances.AttendanceByID(ctx, id)
				if err != nil {
					return storageFailure(f, "get attendance", err)
				}
				if !found {
					return f.Fail(ExitFailure, ErrCodeNotFound, "attendance not found", map[string]int{"id": id}, nil)
				}
				return f.Success(attendanceView(attendance))
			})
		},
	}
}

func newAttendanceStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set the status of a registration",
		Long: `Set the status of a registration.

Status is one of Registered, Attended, Cancelled or NoShow (any case), or
its number 0-3. Any status may follow any other.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			id, err := parseID(f, "attendance", args[0])
			if err != nil {
				return err
			}
			status, err := model.ParseAttendanceStatus(args[1])
			if err != nil {
				return f.Fail(ExitFailure, ErrCodeValidation, err.Error(), nil, err)
			}

			return withApp(rootOpts, cmd, func(ctx context.Context, a *app, f *OutputFormatter) error {
				updated, err := a.attendances.UpdateAttendanceStatus(ctx, id, status)
				if err != nil {
					return storageFailure(f, "update status", err)
				}
				if !updated {
					return f.Fail(ExitFailure, ErrCodeNotFound, "attendance not found", map[string]int{"id": id}, nil)
				}
				attendance, _, err := a.attendances.AttendanceByID(ctx, id)
				if err != nil {
					return storageFailure(f, "get attendance", err)
				}
				return f.Success(attendanceView(attendance))
			})
		},
	}
}
