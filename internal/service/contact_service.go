package service

import (
	"context"
	"errors"
	"sort"

	"github.com/Snomn123/Whatsapp-layout/internal/domain"
	"github.com/Snomn123/Whatsapp-layout/internal/registry"
	"github.com/Snomn123/Whatsapp-layout/internal/repository"
	"github.com/Snomn123/Whatsapp-layout/pkg/log"
)

var ErrSelfContact = errors.New("cannot add yourself as a contact")

type contactService struct {
	contacts repository.ContactRepository
	users    repository.UserRepository
	registry registry.Registry
}

// NewContactService creates the contact-edge service.
func NewContactService(
	contacts repository.ContactRepository,
	users repository.UserRepository,
	reg registry.Registry,
) ContactService {
	return &contactService{contacts: contacts, users: users, registry: reg}
}

// List merges the user's contact edges with registry-derived presence.
// Mutual edges are confirmed contacts; an outgoing-only edge is pending and
// an incoming-only edge is a request waiting for this user.
func (s *contactService) List(ctx context.Context, userID uint) ([]*domain.Contact, error) {
	edges, err := s.contacts.EdgesFor(ctx, userID)
	if err != nil {
		return nil, err
	}

	outgoing := make(map[uint]*domain.User)
	incoming := make(map[uint]*domain.User)
	for _, e := range edges {
		if e.User == nil {
			continue
		}
		if e.OwnerID == userID {
			outgoing[e.ContactID] = e.User
		} else {
			incoming[e.OwnerID] = e.User
		}
	}

	seen := make(map[uint]bool)
	contacts := make([]*domain.Contact, 0, len(outgoing)+len(incoming))

	appendContact := func(u *domain.User) *domain.Contact {
		c := &domain.Contact{
			ID:         u.ID,
			Username:   u.Username,
			Avatar:     u.Avatar,
			LastOnline: u.LastOnline,
			IsOnline:   s.registry.IsOnline(u.ID),
			IsIdle:     s.registry.IsIdle(u.ID),
		}
		contacts = append(contacts, c)
		seen[u.ID] = true
		return c
	}

	for id, u := range outgoing {
		c := appendContact(u)
		if _, mutual := incoming[id]; !mutual {
			c.Pending = true
		}
	}
	for id, u := range incoming {
		if seen[id] {
			continue
		}
		c := appendContact(u)
		c.Incoming = true
	}

	sort.Slice(contacts, func(i, j int) bool {
		return contacts[i].Username < contacts[j].Username
	})
	return contacts, nil
}

// Add creates the edge userID -> target. When the target already added us the
// pair becomes mutual. The target's live session, if any, gets a new-contact
// push so its sidebar updates without a reload.
func (s *contactService) Add(ctx context.Context, userID uint, targetUsername string) (*domain.Contact, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}
	if target.ID == userID {
		return nil, ErrSelfContact
	}

	if err := s.contacts.Add(ctx, userID, target.ID); err != nil {
		return nil, err
	}

	reverse, err := s.contacts.Exists(ctx, target.ID, userID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to check reverse contact edge")
		reverse = false
	}

	contact := &domain.Contact{
		ID:         target.ID,
		Username:   target.Username,
		Avatar:     target.Avatar,
		LastOnline: target.LastOnline,
		IsOnline:   s.registry.IsOnline(target.ID),
		IsIdle:     s.registry.IsIdle(target.ID),
		Pending:    !reverse,
	}

	// Push the adding user's card to the target. Best effort: an offline
	// target sees the request on its next contact list load.
	if owner, err := s.users.GetByID(ctx, userID); err == nil {
		s.registry.SendTo(target.ID, &domain.NewContactPush{
			Type: domain.EventNewContact,
			Contact: &domain.Contact{
				ID:         owner.ID,
				Username:   owner.Username,
				Avatar:     owner.Avatar,
				LastOnline: owner.LastOnline,
				IsOnline:   s.registry.IsOnline(owner.ID),
				IsIdle:     s.registry.IsIdle(owner.ID),
				Incoming:   !reverse,
			},
		})
	}

	return contact, nil
}

func (s *contactService) Remove(ctx context.Context, userID, contactID uint) error {
	return s.contacts.Remove(ctx, userID, contactID)
}
