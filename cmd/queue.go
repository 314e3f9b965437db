package main

import (
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"mixing-service/internal/models"
	"mixing-service/internal/repository"
	"mixing-service/internal/services"
)

func newQueueCommand() *cobra.Command {
	var (
		status uint
		search string
	)
	cmd := &cobra.Command{
		Use:   "queue",
		Short: "Print the staff work queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap()
			if err != nil {
				return err
			}
			defer rt.close()

			projects := services.NewProjectService(rt.db, nil, rt.logger, nil)
			queue, err := projects.Queue(cmd.Context(), repository.QueueFilter{
				Status: models.ProjectStatus(status),
				Search: search,
			})
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"Priority", "Project", "Owner", "Status", "Active", "Updated"})
			for _, p := range queue {
				owner := ""
				if p.Owner != nil {
					owner = p.Owner.DisplayName()
				}
				t.AppendRow(table.Row{p.Priority, p.Title, owner, p.Status, p.Active, humanize.Time(p.UpdatedAt)})
			}
			t.AppendFooter(table.Row{"", "", "", "Total", len(queue), ""})
			t.Render()
			return nil
		},
	}
	cmd.Flags().UintVar(&status, "status", 0, "only projects in this status (1-6)")
	cmd.Flags().StringVar(&search, "search", "", "match project title or owner username")
	return cmd
}
