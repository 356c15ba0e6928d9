package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"kaizen/internal/app"
	"kaizen/internal/config"
	"kaizen/internal/db"
	"kaizen/internal/domain"
	"kaizen/internal/engine"
	"kaizen/internal/logging"
	"kaizen/internal/metrics"
	"kaizen/internal/migrate"
	"kaizen/internal/server"
	"kaizen/internal/view"
)

var rootCmd = &cobra.Command{
	Use:   "kz",
	Short: "Kaizen CLI",
	Long: `Kaizen tracks continuous improvement of physical spaces.
Core concepts:
- Workspace: your .kaizen directory holding the database; kaizen.yml tunes the waste catalog.
- Space: a physical area being improved (garage, kitchen, workshop); it owns everything else.
- Actions: repeatable point-earning activities; log one each time you do it.
- Quests: multi-step actions that award points per completed step, in order.
- Clock: clock in to a space while working there; minutes accumulate on clock-out.
- Waste: observations from the TIMWOODS taxonomy, each with a fixed point weight.
- Todos: before/after photo tasks; completing one needs both images.
- Log: the append-only diary every point total is derived from.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("KAIZEN")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().StringP("space", "s", "", "space id or name (defaults to the only space)")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("space", rootCmd.PersistentFlags().Lookup("space"))
}

func registerCommands() {
	rootCmd.AddCommand(spaceCmd())
	rootCmd.AddCommand(actionCmd())
	rootCmd.AddCommand(questCmd())
	rootCmd.AddCommand(wasteCmd())
	rootCmd.AddCommand(todoCmd())
	rootCmd.AddCommand(commentCmd())
	rootCmd.AddCommand(logCmd())
	rootCmd.AddCommand(statsCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(serveCmd())
}

func spaceCmd() *cobra.Command {
	sp := &cobra.Command{Use: "space", Short: "Manage spaces"}
	sp.AddCommand(spaceCreateCmd())
	sp.AddCommand(spaceListCmd())
	sp.AddCommand(spaceShowCmd())
	sp.AddCommand(spaceUpdateCmd())
	sp.AddCommand(spaceDeleteCmd())
	sp.AddCommand(spaceDuplicateCmd())
	sp.AddCommand(clockInCmd())
	sp.AddCommand(clockOutCmd())
	sp.AddCommand(addTimeCmd())
	return sp
}

func spaceCreateCmd() *cobra.Command {
	var opts engine.SpaceCreateOptions
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create space",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Name = args[0]
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := e.CreateSpace(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Description, "description", "", "description")
	cmd.Flags().StringVar(&opts.Goal, "goal", "", "improvement goal")
	cmd.Flags().StringVar(&opts.BeforeImage, "before-image", "", "before image reference")
	cmd.Flags().StringVar(&opts.AfterImage, "after-image", "", "after image reference")
	return cmd
}

func spaceListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List spaces, most recently modified first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				items, err := e.ListSpaces(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Goal", "Clocked", "Minutes", "Modified"})
				for _, s := range items {
					clocked := ""
					if s.IsClockedIn {
						clocked = "yes"
					}
					tw.AppendRow(table.Row{s.ID, s.Name, s.Goal, clocked, s.TotalClockedInTime, s.DateModified.Format(time.RFC3339)})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func spaceShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the space with all of its collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				v, err := spaceLoader(e).Load(ctx, s.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(v)
			})
		},
	}
	return cmd
}

func spaceUpdateCmd() *cobra.Command {
	var name, description, goal, beforeImage, afterImage string
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update space fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				opts := engine.SpaceUpdateOptions{ID: s.ID}
				if cmd.Flags().Changed("name") {
					opts.Name = &name
				}
				if cmd.Flags().Changed("description") {
					opts.Description = &description
				}
				if cmd.Flags().Changed("goal") {
					opts.Goal = &goal
				}
				if cmd.Flags().Changed("before-image") {
					opts.BeforeImage = &beforeImage
				}
				if cmd.Flags().Changed("after-image") {
					opts.AfterImage = &afterImage
				}
				s, err = e.UpdateSpace(ctx, opts)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&goal, "goal", "", "improvement goal")
	cmd.Flags().StringVar(&beforeImage, "before-image", "", "before image reference")
	cmd.Flags().StringVar(&afterImage, "after-image", "", "after image reference")
	return cmd
}

func spaceDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the space and everything it owns",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				if err := e.DeleteSpace(ctx, s.ID); err != nil {
					return err
				}
				fmt.Printf("Deleted space %s\n", s.Name)
				return nil
			})
		},
	}
	return cmd
}

func spaceDuplicateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duplicate",
		Short: "Duplicate the space with its actions and quests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				copySpace, err := e.DuplicateSpace(ctx, s.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(copySpace)
			})
		},
	}
	return cmd
}

func clockInCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock-in",
		Short: "Start a clock session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				s, err = e.ClockIn(ctx, s.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	return cmd
}

func clockOutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clock-out",
		Short: "End the clock session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				s, err = e.ClockOut(ctx, s.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	return cmd
}

func addTimeCmd() *cobra.Command {
	var minutes int
	cmd := &cobra.Command{
		Use:   "add-time",
		Short: "Add minutes to the accumulated clocked time",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				s, err = e.AddClockedTime(ctx, s.ID, minutes)
				if err != nil {
					return err
				}
				return printJSONOrTable(s)
			})
		},
	}
	cmd.Flags().IntVar(&minutes, "minutes", 0, "minutes to add")
	_ = cmd.MarkFlagRequired("minutes")
	return cmd
}

func actionCmd() *cobra.Command {
	ac := &cobra.Command{Use: "action", Short: "Manage actions"}
	ac.AddCommand(actionAddCmd())
	ac.AddCommand(actionListCmd())
	ac.AddCommand(actionRmCmd())
	ac.AddCommand(actionLogCmd())
	return ac
}

func actionAddCmd() *cobra.Command {
	var description string
	var points int
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				a, err := e.CreateAction(ctx, engine.ActionCreateOptions{
					SpaceID:     s.ID,
					Name:        args[0],
					Description: description,
					Points:      points,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(a)
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().IntVar(&points, "points", 1, "points per performance")
	return cmd
}

func actionListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				items, err := e.ListActions(ctx, s.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Points"})
				for _, a := range items {
					tw.AppendRow(table.Row{a.ID, a.Name, a.Points})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func actionRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				return e.DeleteAction(ctx, args[0])
			})
		},
	}
	return cmd
}

func actionLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <id>",
		Short: "Record one performance of the action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				entry, err := e.LogAction(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(entry)
			})
		},
	}
	return cmd
}

func questCmd() *cobra.Command {
	q := &cobra.Command{
		Use:   "quest",
		Short: "Manage multi-step actions",
		Long:  "Quests are ordered multi-step actions. Steps complete strictly in order, each awarding the quest's points-per-step; a finished quest stays finished.",
	}
	q.AddCommand(questAddCmd())
	q.AddCommand(questListCmd())
	q.AddCommand(questStepCmd())
	q.AddCommand(questRmCmd())
	return q
}

func questAddCmd() *cobra.Command {
	var description string
	var points int
	var steps []string
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create multi-step action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				q, err := e.CreateQuest(ctx, engine.QuestCreateOptions{
					SpaceID:       s.ID,
					Name:          args[0],
					Description:   description,
					PointsPerStep: points,
					StepNames:     steps,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(q)
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().IntVar(&points, "points", 1, "points per completed step")
	cmd.Flags().StringArrayVar(&steps, "step", []string{}, "step name (repeatable, in order)")
	_ = cmd.MarkFlagRequired("step")
	return cmd
}

func questListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List multi-step actions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				items, err := e.ListQuests(ctx, s.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Progress", "Points/Step"})
				for _, q := range items {
					tw.AppendRow(table.Row{q.ID, q.Name, fmt.Sprintf("%d/%d", q.CurrentStepIndex, len(q.Steps)), q.PointsPerStep})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func questStepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "step <id>",
		Short: "Complete the current step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				q, err := e.CompleteQuestStep(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSONOrTable(q)
			})
		},
	}
	return cmd
}

func questRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete multi-step action",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				return e.DeleteQuest(ctx, args[0])
			})
		},
	}
	return cmd
}

func wasteCmd() *cobra.Command {
	wc := &cobra.Command{
		Use:   "waste",
		Short: "Record and inspect waste observations",
		Long:  "Waste entries record observed inefficiencies from the configured taxonomy (TIMWOODS by default). Each category carries a fixed point weight copied onto the entry.",
	}
	wc.AddCommand(wasteLogCmd())
	wc.AddCommand(wasteListCmd())
	wc.AddCommand(wasteCategoriesCmd())
	wc.AddCommand(wasteRmCmd())
	return wc
}

func wasteLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log <category>...",
		Short: "Record one or more waste observations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				entries, err := e.LogWaste(ctx, s.ID, args)
				if err != nil {
					return err
				}
				return printJSONOrTable(entries)
			})
		},
	}
	return cmd
}

func wasteListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List waste entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				items, err := e.ListWaste(ctx, s.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Category", "Points", "When"})
				for _, entry := range items {
					tw.AppendRow(table.Row{entry.ID, entry.Category, entry.Points, entry.Timestamp.Format(time.RFC3339)})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func wasteCategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Show the configured waste catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				if viper.GetBool("json") {
					return printJSON(e.Config.Waste.Catalog)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Name", "Points"})
				for _, cat := range e.Config.Waste.Catalog {
					tw.AppendRow(table.Row{cat.ID, cat.Name, cat.Points})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func wasteRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete waste entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				return e.DeleteWasteEntry(ctx, args[0])
			})
		},
	}
	return cmd
}

func todoCmd() *cobra.Command {
	td := &cobra.Command{
		Use:   "todo",
		Short: "Manage before/after todo items",
	}
	td.AddCommand(todoAddCmd())
	td.AddCommand(todoListCmd())
	td.AddCommand(todoBeforeCmd())
	td.AddCommand(todoDoneCmd())
	td.AddCommand(todoRmCmd())
	return td
}

func todoAddCmd() *cobra.Command {
	var beforeImage string
	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Create todo item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				t, err := e.CreateTodo(ctx, engine.TodoCreateOptions{
					SpaceID:     s.ID,
					Description: args[0],
					BeforeImage: beforeImage,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&beforeImage, "before-image", "", "before image reference")
	return cmd
}

func todoListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todo items, oldest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				items, err := e.ListTodos(ctx, s.ID)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"ID", "Description", "Done", "Before", "After"})
				for _, t := range items {
					done := ""
					if t.Completed {
						done = "x"
					}
					tw.AppendRow(table.Row{t.ID, t.Description, done, t.BeforeImage, t.AfterImage})
				}
				tw.Render()
				return nil
			})
		},
	}
	return cmd
}

func todoBeforeCmd() *cobra.Command {
	var image string
	cmd := &cobra.Command{
		Use:   "before <id>",
		Short: "Attach or replace the before image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.SetTodoBeforeImage(ctx, args[0], image)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "before image reference")
	_ = cmd.MarkFlagRequired("image")
	return cmd
}

func todoDoneCmd() *cobra.Command {
	var afterImage string
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Complete a todo with its after image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.CompleteTodo(ctx, args[0], afterImage)
				if err != nil {
					return err
				}
				return printJSONOrTable(t)
			})
		},
	}
	cmd.Flags().StringVar(&afterImage, "after-image", "", "after image reference")
	_ = cmd.MarkFlagRequired("after-image")
	return cmd
}

func todoRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete todo item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				return e.DeleteTodo(ctx, args[0])
			})
		},
	}
	return cmd
}

func commentCmd() *cobra.Command {
	cc := &cobra.Command{Use: "comment", Short: "Manage comments"}
	cc.AddCommand(commentAddCmd())
	cc.AddCommand(commentListCmd())
	cc.AddCommand(commentRmCmd())
	return cc
}

func commentAddCmd() *cobra.Command {
	var image string
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Create comment",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := ""
			if len(args) == 1 {
				text = args[0]
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				c, err := e.CreateComment(ctx, engine.CommentCreateOptions{
					SpaceID: s.ID,
					Text:    text,
					Image:   image,
				})
				if err != nil {
					return err
				}
				return printJSONOrTable(c)
			})
		},
	}
	cmd.Flags().StringVar(&image, "image", "", "image reference")
	return cmd
}

func commentListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List comments, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				items, err := e.ListComments(ctx, s.ID)
				if err != nil {
					return err
				}
				return printJSONOrTable(items)
			})
		},
	}
	return cmd
}

func commentRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				return e.DeleteComment(ctx, args[0])
			})
		},
	}
	return cmd
}

func logCmd() *cobra.Command {
	lg := &cobra.Command{
		Use:   "log",
		Short: "The append-only activity log",
	}
	lg.AddCommand(logListCmd())
	lg.AddCommand(logRmCmd())
	return lg
}

func logListCmd() *cobra.Command {
	var n int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List log entries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				items, err := e.ListLogs(ctx, s.ID, n)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(os.Stdout)
				tw.AppendHeader(table.Row{"When", "Type", "What", "Points"})
				for _, entry := range items {
					tw.AppendRow(table.Row{entry.Timestamp.Format(time.RFC3339), entry.Type, entry.ActionName, entry.Points})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&n, "n", 20, "number of entries, 0 for all")
	return cmd
}

func logRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				return e.DeleteLogEntry(ctx, args[0])
			})
		},
	}
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Derived metrics for the space",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				v, err := spaceLoader(e).Load(ctx, s.ID)
				if err != nil {
					return err
				}
				summary := v.Summary(time.Now())
				if viper.GetBool("json") {
					return printJSON(summary)
				}
				printSummary(s, summary)
				return nil
			})
		},
	}
	return cmd
}

func watchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live session view, refreshed every interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				s, err := resolveSpace(ctx, e)
				if err != nil {
					return err
				}
				loader := spaceLoader(e)
				v, err := loader.Load(ctx, s.ID)
				if err != nil {
					return err
				}
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					fmt.Print("\033[H\033[2J")
					printSummary(v.Space, v.Summary(time.Now()))
					select {
					case <-ctx.Done():
						return nil
					case <-ticker.C:
					}
					if err := loader.Refresh(ctx, v); err != nil {
						return err
					}
				}
			})
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "refresh interval")
	return cmd
}

func configCmd() *cobra.Command {
	cfg := &cobra.Command{
		Use:   "config",
		Short: "Inspect workspace config",
		Long:  "Config is kaizen.yml in the workspace: the waste catalog and log level. Without the file the built-in TIMWOODS defaults apply.",
	}
	cfg.AddCommand(configShowCmd())
	cfg.AddCommand(configValidateCmd())
	return cfg
}

func configShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show loaded config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			return printJSONOrTable(cfg)
		},
	}
	return cmd
}

func configValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate workspace config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.GetString("workspace"))
			if err == nil {
				err = cfg.Validate()
			}
			if viper.GetBool("json") {
				return printJSON(map[string]any{"ok": err == nil, "error": fmt.Sprint(err)})
			}
			if err != nil {
				return err
			}
			fmt.Println("config OK")
			return nil
		},
	}
	return cmd
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				authCfg := server.AuthConfig{Secret: os.Getenv("KAIZEN_AUTH_SECRET")}
				handler, err := server.New(server.Config{Engine: e, BasePath: basePath, Auth: authCfg})
				if err != nil {
					return err
				}
				if authCfg.Secret != "" {
					token, err := server.IssueToken(authCfg.Secret, "local-user", 24*time.Hour)
					if err != nil {
						return err
					}
					fmt.Printf("Bearer token (24h): %s\n", token)
				}
				srv := &http.Server{Addr: addr, Handler: handler}
				go func() {
					<-ctx.Done()
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					srv.Shutdown(shutdownCtx)
				}()
				fmt.Printf("Serving Kaizen API on http://%s%s (OpenAPI at %s/openapi.json)\n", addr, basePath, basePath)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, *engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	cfg, err := config.Load(workspace)
	if err != nil {
		return err
	}
	log := logging.New(cfg.Log.Level)
	e := engine.New(conn, cfg, log)
	return fn(ctx, e)
}

func resolveSpace(ctx context.Context, e *engine.Engine) (domain.Space, error) {
	return app.ResolveSpace(ctx, viper.GetString("space"), e.Spaces)
}

func spaceLoader(e *engine.Engine) view.Loader {
	return view.Loader{
		Spaces:   e.Spaces,
		Actions:  e.Actions,
		Quests:   e.Quests,
		Logs:     e.Logs,
		Waste:    e.Waste,
		Comments: e.Comments,
		Todos:    e.Todos,
	}
}

func printSummary(s domain.Space, sum metrics.Summary) {
	fmt.Printf("Space: %s\n", s.Name)
	if sum.IsClockedIn {
		elapsed := time.Duration(sum.SessionElapsedSeconds) * time.Second
		fmt.Printf("Session: %s, %d points (%.1f pts/h)\n", elapsed.Round(time.Second), sum.SessionPoints, sum.PointsPerHour)
	} else {
		fmt.Println("Session: not clocked in")
	}
	fmt.Printf("Total: %d points, %d waste points, %d minutes clocked\n", sum.TotalPoints, sum.TotalWastePoints, sum.TotalClockedMinutes)
}

func printJSONOrTable(v any) error {
	if viper.GetBool("json") {
		return printJSON(v)
	}
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
	return nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
