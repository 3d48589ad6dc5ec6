package graph

import (
	"strconv"
	"time"

	"chirp/internal/models"

	"github.com/graphql-go/graphql"
)

// authPayload is what registration and login return.
type authPayload struct {
	Token string
	User  *models.User
}

var mediaType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Media",
	Fields: graphql.Fields{
		"url": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(mediaRef).URL, nil
			},
		},
		"publicID": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				return p.Source.(mediaRef).PublicID, nil
			},
		},
	},
})

// mediaRef is the source value behind mediaType.
type mediaRef struct {
	URL      string
	PublicID string
}

// userType builds the User object type. Follower and following lists are
// resolved lazily against the edge relation, so both views always reflect
// the same stored edges. The password hash is deliberately not exposed.
func (r *Resolver) userType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.ID,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return formatID(userSource(p).ID), nil
					},
				},
				"username": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return userSource(p).Username, nil
					},
				},
				"name": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return userSource(p).Name, nil
					},
				},
				"bio": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return userSource(p).Bio, nil
					},
				},
				"avatar": &graphql.Field{
					Type: mediaType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						user := userSource(p)
						if user.AvatarURL == "" {
							return nil, nil
						}
						return mediaRef{URL: user.AvatarURL, PublicID: user.AvatarKey}, nil
					},
				},
				"createdAt": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return formatTime(userSource(p).CreatedAt), nil
					},
				},
				"followers": &graphql.Field{
					Type: graphql.NewList(r.user),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						users, err := r.Users.Followers(p.Context, userSource(p).ID)
						return users, wrapErr(err)
					},
				},
				"following": &graphql.Field{
					Type: graphql.NewList(r.user),
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						users, err := r.Users.Following(p.Context, userSource(p).ID)
						return users, wrapErr(err)
					},
				},
			}
		}),
	})
}

// tweetType builds the Tweet object type. The author is resolved from its
// stored reference.
func (r *Resolver) tweetType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Tweet",
		Fields: graphql.FieldsThunk(func() graphql.Fields {
			return graphql.Fields{
				"id": &graphql.Field{
					Type: graphql.ID,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return formatID(tweetSource(p).ID), nil
					},
				},
				"content": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return tweetSource(p).Content, nil
					},
				},
				"media": &graphql.Field{
					Type: mediaType,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						tweet := tweetSource(p)
						if !tweet.HasMedia() {
							return nil, nil
						}
						return mediaRef{URL: tweet.MediaURL, PublicID: tweet.MediaKey}, nil
					},
				},
				"author": &graphql.Field{
					Type: r.user,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						user, err := r.Users.Get(p.Context, tweetSource(p).AuthorID)
						return user, wrapErr(err)
					},
				},
				"createdAt": &graphql.Field{
					Type: graphql.String,
					Resolve: func(p graphql.ResolveParams) (interface{}, error) {
						return formatTime(tweetSource(p).CreatedAt), nil
					},
				},
			}
		}),
	})
}

// userTokenType builds the payload type returned by addUser and loginUser.
func (r *Resolver) userTokenType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "UserToken",
		Fields: graphql.Fields{
			"token": &graphql.Field{
				Type: graphql.String,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(authPayload).Token, nil
				},
			},
			"user": &graphql.Field{
				Type: r.user,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return p.Source.(authPayload).User, nil
				},
			},
		},
	})
}

// userSource normalizes the value and pointer forms the executor hands to
// User field resolvers.
func userSource(p graphql.ResolveParams) *models.User {
	switch v := p.Source.(type) {
	case *models.User:
		return v
	case models.User:
		return &v
	default:
		return &models.User{}
	}
}

func tweetSource(p graphql.ResolveParams) *models.Tweet {
	switch v := p.Source.(type) {
	case *models.Tweet:
		return v
	case models.Tweet:
		return &v
	default:
		return &models.Tweet{}
	}
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
