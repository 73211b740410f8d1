package cli

import (
	"bytes"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/jacentio/eventease/model"
)

const dateLayout = "2006-01-02"

type eventView model.Event

func (v eventView) String() string {
	return fmt.Sprintf("Event %d: %s\n  Date:     %s\n  Location: %s\n",
		v.ID, v.Name, v.Date.Format(dateLayout), v.Location)
}

type eventList []model.Event

func (l eventList) String() string {
	if len(l) == 0 {
		return "No events.\n"
	}
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tDATE\tLOCATION")
	for _, e := range l {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Name, e.Date.Format(dateLayout), e.Location)
	}
	_ = tw.Flush()
	return buf.String()
}

type attendanceView model.Attendance

func (v attendanceView) String() string {
	return fmt.Sprintf("Attendance %d: %s <%s>\n  Event:      %d\n  Registered: %s\n  Status:     %s\n",
		v.ID, v.AttendeeName, v.AttendeeEmail, v.EventID,
		v.RegistrationDate.Format(time.RFC3339), v.Status)
}

type attendanceList []model.Attendance

func (l attendanceList) String() string {
	if len(l) == 0 {
		return "No attendees.\n"
	}
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tSTATUS\tREGISTERED")
	for _, a := range l {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", a.ID, a.AttendeeName, a.AttendeeEmail, a.Status, a.RegistrationDate.Format(time.RFC3339))
	}
	_ = tw.Flush()
	return buf.String()
}

// parseDate accepts a calendar date in the local zone or an RFC 3339 time.
func parseDate(s string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
