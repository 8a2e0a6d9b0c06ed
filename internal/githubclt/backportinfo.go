package githubclt

import (
	"context"

	"github.com/shurcooL/githubv4"
)

// ProjectColumn is a column of a classic project board.
type ProjectColumn struct {
	ID   int64
	Name string
}

// ProjectCard is a card of a classic project board.
// SiblingColumns contains all columns of the project the card belongs to,
// including the one the card is currently in.
type ProjectCard struct {
	ID             int64
	ColumnID       int64
	ColumnName     string
	SiblingColumns []*ProjectColumn
}

// OnProjectWithColumn returns true if the project board the card belongs to
// contains a column with the given id.
func (c *ProjectCard) OnProjectWithColumn(columnID int64) bool {
	for _, column := range c.SiblingColumns {
		if column.ID == columnID {
			return true
		}
	}

	return false
}

// BackportInfo contains the information about a pull request that the
// backport workflow is driven by.
// MilestoneTitle and MilestoneDescription are empty when the pull request
// has no milestone assigned.
type BackportInfo struct {
	// ContentID is the database id of the pull request, it is used as
	// content id when creating project cards.
	ContentID            int64
	BaseRef              string
	HeadRef              string
	Merged               bool
	MilestoneTitle       string
	MilestoneDescription string
	Cards                []*ProjectCard
}

// PullRequestBackportInfo queries the database id, milestone and project
// cards of a pull request.
func (clt *Client) PullRequestBackportInfo(ctx context.Context, owner, repo string, prNumber int) (*BackportInfo, error) {
	var q struct {
		Repository struct {
			PullRequest struct {
				DatabaseID  githubv4.Int
				Merged      githubv4.Boolean
				BaseRefName githubv4.String
				HeadRefName githubv4.String

				Milestone struct {
					Title       githubv4.String
					Description githubv4.String
				}

				ProjectCards struct {
					Nodes []struct {
						DatabaseID githubv4.Int

						Column struct {
							DatabaseID githubv4.Int
							Name       githubv4.String
						}

						Project struct {
							Columns struct {
								Nodes []struct {
									DatabaseID githubv4.Int
									Name       githubv4.String
								}
							} `graphql:"columns(first: $columnsFirst)"`
						}
					}
				} `graphql:"projectCards(first: $cardsFirst)"`
			} `graphql:"pullRequest(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}

	vars := map[string]any{
		"owner":        githubv4.String(owner),
		"name":         githubv4.String(repo),
		"number":       githubv4.Int(prNumber),
		"cardsFirst":   githubv4.Int(20),
		"columnsFirst": githubv4.Int(20),
	}

	if err := clt.graphQLClt.Query(ctx, &q, vars); err != nil {
		return nil, clt.wrapGraphQLRetryableErrors(err)
	}

	pr := q.Repository.PullRequest

	result := BackportInfo{
		ContentID:            int64(pr.DatabaseID),
		BaseRef:              string(pr.BaseRefName),
		HeadRef:              string(pr.HeadRefName),
		Merged:               bool(pr.Merged),
		MilestoneTitle:       string(pr.Milestone.Title),
		MilestoneDescription: string(pr.Milestone.Description),
	}

	for _, cardNode := range pr.ProjectCards.Nodes {
		card := ProjectCard{
			ID:         int64(cardNode.DatabaseID),
			ColumnID:   int64(cardNode.Column.DatabaseID),
			ColumnName: string(cardNode.Column.Name),
		}

		for _, columnNode := range cardNode.Project.Columns.Nodes {
			card.SiblingColumns = append(card.SiblingColumns, &ProjectColumn{
				ID:   int64(columnNode.DatabaseID),
				Name: string(columnNode.Name),
			})
		}

		result.Cards = append(result.Cards, &card)
	}

	return &result, nil
}
