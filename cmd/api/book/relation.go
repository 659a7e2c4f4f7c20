package book

import (
	"context"
	"fmt"

	"github.com/catalog-federation/cmd/api/pkgerrors"
	"github.com/samber/lo"
)

/* Side describes one direction of the books/authors relation: whose links are synced and what they point to. */
type Side struct {
	Other    string
	other    func(Link) int
	link     func(ownerID, otherID int) Link
	list     func(ctx context.Context, repo Repository, ownerID int) ([]Link, error)
	existing func(ctx context.Context, repo Repository, ids []int) ([]int, error)
}

var BookAuthors = Side{
	Other: "Author",
	other: func(l Link) int { return l.AuthorID },
	link:  func(bookID, authorID int) Link { return Link{BookID: bookID, AuthorID: authorID} },
	list: func(ctx context.Context, repo Repository, bookID int) ([]Link, error) {
		return repo.ListLinksByBook(ctx, bookID)
	},
	existing: func(ctx context.Context, repo Repository, ids []int) ([]int, error) {
		return repo.ExistingAuthorIDs(ctx, ids)
	},
}

var AuthorBooks = Side{
	Other: "Book",
	other: func(l Link) int { return l.BookID },
	link:  func(authorID, bookID int) Link { return Link{BookID: bookID, AuthorID: authorID} },
	list: func(ctx context.Context, repo Repository, authorID int) ([]Link, error) {
		return repo.ListLinksByAuthor(ctx, authorID)
	},
	existing: func(ctx context.Context, repo Repository, ids []int) ([]int, error) {
		return repo.ExistingBookIDs(ctx, ids)
	},
}

type LinkPlan struct {
	Delete []Link
	Insert []Link
}

/*
Computes the link writes that turn the current association set of ownerID into desired.
Desired is the complete target set, duplicates in it are ignored.
*/
func PlanSync(side Side, ownerID int, current []Link, desired []int) LinkPlan {
	currentIDs := lo.Map(current, func(l Link, _ int) int { return side.other(l) })
	stale, missing := lo.Difference(lo.Uniq(currentIDs), lo.Uniq(desired))

	toLink := func(otherID int, _ int) Link { return side.link(ownerID, otherID) }
	return LinkPlan{
		Delete: lo.Map(stale, toLink),
		Insert: lo.Map(missing, toLink),
	}
}

/*
Makes the association set of ownerID equal to desired. It must run inside the caller's
transaction: a ReferenceNotFound error is returned before any write, and any later failure
leaves the rollback to the caller.
*/
func Sync(ctx context.Context, repo Repository, side Side, ownerID int, desired []int) ([]Link, error) {
	desired = lo.Uniq(desired)

	if len(desired) > 0 {
		found, err := side.existing(ctx, repo, desired)
		if err != nil {
			return nil, fmt.Errorf("checking %s references: %w", side.Other, err)
		}
		if missing := lo.Without(desired, found...); len(missing) > 0 {
			return nil, pkgerrors.ReferenceNotFound(side.Other, missing)
		}
	}

	current, err := side.list(ctx, repo, ownerID)
	if err != nil {
		return nil, fmt.Errorf("loading current links: %w", err)
	}

	plan := PlanSync(side, ownerID, current, desired)
	if len(plan.Delete) > 0 {
		if err := repo.DeleteLinks(ctx, plan.Delete); err != nil {
			return nil, fmt.Errorf("deleting stale links: %w", err)
		}
	}
	if len(plan.Insert) > 0 {
		if err := repo.InsertLinks(ctx, plan.Insert); err != nil {
			return nil, fmt.Errorf("inserting new links: %w", err)
		}
	}

	return lo.Map(desired, func(otherID int, _ int) Link { return side.link(ownerID, otherID) }), nil
}
