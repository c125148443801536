package cli

import (
	"fitnote/planner/internal/domain"
	"fitnote/planner/internal/service"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func (a *app) planCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or edit the workout plan",
	}
	cmd.AddCommand(
		a.planShowCommand(),
		a.planAddSectionCommand(),
		a.planAddWorkoutCommand(),
		a.planDetailCommand(),
		a.planMoveCommand(),
		a.planResetCommand(),
	)
	return cmd
}

func parseID(kind, s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

func printPlan(out io.Writer, p *domain.Plan) {
	if len(p.Sections) == 0 {
		fmt.Fprintln(out, "plan is empty")
		return
	}
	for i, s := range p.Sections {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "%s  [%s]\n", s.Title, s.ID)
		for j, w := range s.Workouts {
			fmt.Fprintf(out, "  %d. %s (%s)  [%s]\n", j+1, w.Name, w.Category, w.ID)
			if w.HasDetail() {
				fmt.Fprintf(out, "     %s\n", w.DetailText())
			}
		}
	}
}

func (a *app) planShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print every section and workout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Read only: nothing to save.
			return a.withPlan(cmd.Context(), func(svc service.PlanService, _ *service.PlanStore) error {
				printPlan(cmd.OutOrStdout(), svc.Snapshot())
				return nil
			})
		},
	}
}

func (a *app) planAddSectionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add-section <title>",
		Short: "Append a section",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEdit(cmd, func(svc service.PlanService) (string, error) {
				s, err := svc.AddSection(cmd.Context(), strings.Join(args, " "))
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("added section %q [%s]", s.Title, s.ID), nil
			})
		},
	}
}

func (a *app) planAddWorkoutCommand() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "add-workout <section-id> <name>",
		Short: "Append a catalog workout, or a custom one with --category",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			name := strings.Join(args[1:], " ")
			return a.withEdit(cmd, func(svc service.PlanService) (string, error) {
				var w domain.WorkoutEntry
				if category != "" {
					// --category means a custom workout, not a catalog lookup
					cat, perr := domain.ParseCategoryFold(category)
					if perr != nil {
						return "", fmt.Errorf("%w: %v", service.ErrInvalidCategory, perr)
					}
					w, err = svc.AddCustomWorkout(cmd.Context(), sectionID, name, cat)
				} else {
					w, err = svc.AddCatalogWorkout(cmd.Context(), sectionID, name)
				}
				if err != nil {
					return "", err
				}
				return fmt.Sprintf("added %s (%s) [%s]", w.Name, w.Category, w.ID), nil
			})
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", "", "add a custom workout in this category")
	return cmd
}

func (a *app) planDetailCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detail <section-id> <workout-id> [detail]",
		Short: "Set a workout's detail text; omit it to clear",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sectionID, err := parseID("section", args[0])
			if err != nil {
				return err
			}
			workoutID, err := parseID("workout", args[1])
			if err != nil {
				return err
			}
			return a.withEdit(cmd, func(svc service.PlanService) (string, error) {
				if err := svc.SetWorkoutDetail(cmd.Context(), sectionID, workoutID, strings.Join(args[2:], " ")); err != nil {
					return "", err
				}
				return "detail updated", nil
			})
		},
	}
}

func (a *app) planMoveCommand() *cobra.Command {
	var sectionFlag string
	cmd := &cobra.Command{
		Use:   "move <from> <to>",
		Short: "Move a section, or a workout within --section",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[0])
			}
			to, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid position %q", args[1])
			}
			return a.withEdit(cmd, func(svc service.PlanService) (string, error) {
				// No --section: move whole sections
				if sectionFlag == "" {
					return "moved", svc.ReorderSections(cmd.Context(), from, to)
				}
				sectionID, err := parseID("section", sectionFlag)
				if err != nil {
					return "", err
				}
				return "moved", svc.ReorderWorkouts(cmd.Context(), sectionID, from, to)
			})
		},
	}
	cmd.Flags().StringVarP(&sectionFlag, "section", "s", "", "reorder workouts of this section")
	return cmd
}

func (a *app) planResetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete every section",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withEdit(cmd, func(svc service.PlanService) (string, error) {
				return "plan reset", svc.Reset(cmd.Context())
			})
		},
	}
}
