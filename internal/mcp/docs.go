package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `shutterboard exposes a photography studio's client sheet as a dashboard.

Data model:
- Client: one row of the studio's Google Sheet (name, email, headshots, price, status).
- Status is one of Completed, In Progress, Pending, Cancelled.
- Stats: totals over all clients; pending_emails counts clients still Pending or In Progress.
- Revenue series: six months of placeholder data derived from total revenue. It is not real history.

Workflow:
1) Read: get_dashboard or list_clients. Data may be stale; fetched_at tells you when it was loaded.
2) Refresh: refresh_dashboard re-reads the sheet. A failure keeps the previous data.
3) Change data: send_chat_message relays a request to the studio assistant, which edits the sheet.
   When the assistant reports a change the dashboard refreshes automatically.
4) Audit: get_recent_activity lists refreshes and chat exchanges.

Docs:
- shutterboard://docs/index
- shutterboard://docs/parsing
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "shutterboard://docs/index",
		Name:        "docs_index",
		Title:       "shutterboard docs index",
		Description: "Entry point: what the tools return and when to use them.",
		Content: `# shutterboard: Agent Docs Index

## Tools

| Tool | Use it to |
|---|---|
| get_dashboard | read clients, stats and the revenue series in one call |
| list_clients | read clients filtered by status (completed, in_progress, pending, cancelled) |
| get_revenue_series | read the chart series only |
| refresh_dashboard | re-read the sheet now |
| send_chat_message | ask the studio assistant to look up or change sheet data |
| get_recent_activity | see recent refreshes and chat exchanges |

## Things to know

- The dashboard starts empty (loaded=false) until the first successful refresh.
- A failed refresh never clears data; you get an error and the previous snapshot stays.
- Client ids are row positions in the sheet and can shift when rows are added or removed.
- If the assistant cannot be reached, send_chat_message still succeeds with failed=true and an apology reply.
- Revenue per month is randomised and changes on every refresh.

See shutterboard://docs/parsing for how sheet rows become clients.
`,
	},
	{
		URI:         "shutterboard://docs/parsing",
		Name:        "docs_parsing",
		Title:       "How sheet rows become clients",
		Description: "Header matching, fallbacks, status normalisation and stats.",
		Content: `# Sheet parsing

The sheet is read as CSV text. Lines are split on commas with no quote handling,
so a comma inside a cell shifts the following columns.

## Columns

The first non-blank line is the header. Each field is found by the first header
containing a keyword (case-insensitive). When no header matches, a fixed position is used.

| Field | Header keyword | Fallback position | Default |
|---|---|---|---|
| name | "name", then "client" | 1st column | |
| email | "email" | 2nd column | |
| headshots | "headshot" | 3rd column | 0 |
| price | "price" | 4th column | 0 |
| status | "status" | 5th column | Pending |

Numbers are read from the leading digits of the cell ("12 photos" is 12, "$500" is 0).

Rows with an empty name are skipped. The id is the row position counted over
non-blank data lines before skipping, so ids can have gaps.

## Status

| Sheet text (case-insensitive) | Status |
|---|---|
| contains "complete", or exactly "done" | Completed |
| contains "progress", or exactly "working" | In Progress |
| contains "cancel" | Cancelled |
| anything else | Pending |

## Stats

- total_clients: number of clients
- total_headshots / total_revenue: sums
- completed_projects: clients with status Completed
- pending_emails: clients whose status is Pending or In Progress
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
