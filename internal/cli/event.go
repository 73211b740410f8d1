package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/jacentio/eventease/model"
	"github.com/jacentio/eventease/store"
)

// NewEventCommand creates the event command group.
func NewEventCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Create and inspect events",
	}
	cmd.AddCommand(newEventAddCommand(rootOpts))
	cmd.AddCommand(newEventListCommand(rootOpts))
	cmd.AddCommand(newEventGetCommand(rootOpts))
	return cmd
}

type eventAddOptions struct {
	name     string
	date     string
	location string
}

func newEventAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &eventAddOptions{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		Long: `Add an event and print it with its assigned ID.

The date is YYYY-MM-DD (local time) or an RFC 3339 timestamp and must not be
before today.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEventAdd(rootOpts, opts, cmd)
		},
	}
	cmd.Flags().StringVar(&opts.name, "name", "", "event name")
	cmd.Flags().StringVar(&opts.date, "date", "", "event date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.location, "location", "", "event location")
	return cmd
}

func runEventAdd(rootOpts *RootOptions, opts *eventAddOptions, cmd *cobra.Command) error {
	f := newFormatter(rootOpts, cmd)

	event := model.Event{Name: opts.name, Location: opts.location}
	if opts.date != "" {
		date, err := parseDate(opts.date)
		if err != nil {
			return f.Fail(ExitCommandError, ErrCodeUsage, err.Error(), nil, err)
		}
		event.Date = date
	}
	if err := model.Validate(event); err != nil {
		return validationFailure(f, err)
	}

	return withApp(rootOpts, cmd, func(ctx context.Context, a *app, f *OutputFormatter) error {
		created, err := a.events.AddEvent(ctx, event)
		if err != nil && !errors.Is(err, store.ErrCounterNotPersisted) {
			return storageFailure(f, "add event", err)
		}
		if err != nil {
			a.logger.Warn("event stored without counter update", "id", created.ID, "error", err)
		}
		return f.Success(eventView(created))
	})
}

func newEventListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all events",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app, f *OutputFormatter) error {
				events, err := a.events.Events(ctx)
				if err != nil {
					return storageFailure(f, "list events", err)
				}
				if events == nil {
					events = []model.Event{}
				}
				return f.Success(eventList(events))
			})
		},
	}
}

func newEventGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(newFormatter(rootOpts, cmd), "event", args[0])
			if err != nil {
				return err
			}
			return withApp(rootOpts, cmd, func(ctx context.Context, a *app, f *OutputFormatter) error {
				event, found, err := a.events.EventByID(ctx, id)
				if err != nil {
					return storageFailure(f, "get event", err)
				}
				if !found {
					return f.Fail(ExitFailure, ErrCodeNotFound, "event not found", map[string]int{"id": id}, nil)
				}
				return f.Success(eventView(event))
			})
		},
	}
}
