package graph

import (
	"chirp/internal/models"
	"chirp/internal/service"

	"github.com/graphql-go/graphql"
)

// Resolver wires the schema's fields to the service layer.
type Resolver struct {
	Auth   *service.AuthService
	Users  *service.UserService
	Tweets *service.TweetService

	user      *graphql.Object
	tweet     *graphql.Object
	userToken *graphql.Object
}

// NewResolver creates a Resolver and its object types.
func NewResolver(auth *service.AuthService, users *service.UserService, tweets *service.TweetService) *Resolver {
	r := &Resolver{Auth: auth, Users: users, Tweets: tweets}
	r.user = r.userType()
	r.tweet = r.tweetType()
	r.userToken = r.userTokenType()
	return r
}

// NewSchema builds the executable schema. Every field except addUser and
// loginUser sits behind the authorization gate.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQueryType",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type: r.user,
				Args: graphql.FieldConfigArgument{
					"user_id":  &graphql.ArgumentConfig{Type: graphql.ID},
					"username": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: authenticated(r.resolveUser),
			},
			"tweet": &graphql.Field{
				Type: r.tweet,
				Args: graphql.FieldConfigArgument{
					"tweet_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: authenticated(func(p graphql.ResolveParams, _ uint) (interface{}, error) {
					tweetID, err := uintArg(p, "tweet_id")
					if err != nil {
						return nil, err
					}
					return r.Tweets.Get(p.Context, tweetID)
				}),
			},
			"tweets": &graphql.Field{
				Type: graphql.NewList(r.tweet),
				Args: graphql.FieldConfigArgument{
					"author_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: authenticated(func(p graphql.ResolveParams, _ uint) (interface{}, error) {
					authorID, err := uintArg(p, "author_id")
					if err != nil {
						return nil, err
					}
					return r.Tweets.ListByAuthor(p.Context, authorID)
				}),
			},
			"tweetsByFollowing": &graphql.Field{
				Type: graphql.NewList(r.tweet),
				Args: graphql.FieldConfigArgument{
					"user_id": &graphql.ArgumentConfig{
						Type:        graphql.NewNonNull(graphql.ID),
						Description: "The user whose followed authors' tweets are returned.",
					},
				},
				Resolve: sameUser("user_id", func(p graphql.ResolveParams, viewerID uint) (interface{}, error) {
					return r.Tweets.ListByFollowing(p.Context, viewerID)
				}),
			},
			"users": &graphql.Field{
				Type: graphql.NewList(r.user),
				Resolve: authenticated(func(p graphql.ResolveParams, _ uint) (interface{}, error) {
					return r.Users.List(p.Context)
				}),
			},
			"usersNotFollowing": &graphql.Field{
				Type: graphql.NewList(r.user),
				Args: graphql.FieldConfigArgument{
					"user_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: sameUser("user_id", func(p graphql.ResolveParams, viewerID uint) (interface{}, error) {
					return r.Users.ListNotFollowing(p.Context, viewerID)
				}),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addUser": &graphql.Field{
				Type: r.userToken,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"name":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"bio":      &graphql.ArgumentConfig{Type: graphql.String},
					"avatar":   &graphql.ArgumentConfig{Type: fileInputType},
				},
				Resolve: open(r.resolveAddUser),
			},
			"loginUser": &graphql.Field{
				Type: r.userToken,
				Args: graphql.FieldConfigArgument{
					"username": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: open(func(p graphql.ResolveParams) (interface{}, error) {
					user, token, err := r.Auth.Login(p.Context, stringArg(p, "username"), stringArg(p, "password"))
					if err != nil {
						return nil, err
					}
					return authPayload{Token: token, User: user}, nil
				}),
			},
			"updateUser": &graphql.Field{
				Type: r.user,
				Args: graphql.FieldConfigArgument{
					"user_id":           &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"name":              &graphql.ArgumentConfig{Type: graphql.String},
					"bio":               &graphql.ArgumentConfig{Type: graphql.String},
					"avatar":            &graphql.ArgumentConfig{Type: fileInputType},
					"followingToAdd":    &graphql.ArgumentConfig{Type: graphql.NewList(graphql.ID)},
					"followingToRemove": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.ID)},
				},
				Resolve: sameUser("user_id", r.resolveUpdateUser),
			},
			"addTweet": &graphql.Field{
				Type: r.tweet,
				Args: graphql.FieldConfigArgument{
					"content":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"authorID": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"file":     &graphql.ArgumentConfig{Type: fileInputType},
				},
				Resolve: sameUser("authorID", func(p graphql.ResolveParams, viewerID uint) (interface{}, error) {
					file, err := fileArg(p, "file")
					if err != nil {
						return nil, err
					}
					return r.Tweets.Create(p.Context, service.CreateTweetInput{
						AuthorID: viewerID,
						Content:  stringArg(p, "content"),
						File:     file,
					})
				}),
			},
			"updateTweet": &graphql.Field{
				Type: r.tweet,
				Args: graphql.FieldConfigArgument{
					"tweet_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"content":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"file":     &graphql.ArgumentConfig{Type: fileInputType},
				},
				Resolve: authenticated(func(p graphql.ResolveParams, viewerID uint) (interface{}, error) {
					tweetID, err := uintArg(p, "tweet_id")
					if err != nil {
						return nil, err
					}
					file, err := fileArg(p, "file")
					if err != nil {
						return nil, err
					}
					return r.Tweets.Update(p.Context, service.UpdateTweetInput{
						ViewerID: viewerID,
						TweetID:  tweetID,
						Content:  stringArg(p, "content"),
						File:     file,
					})
				}),
			},
			"deleteTweet": &graphql.Field{
				Type: r.tweet,
				Args: graphql.FieldConfigArgument{
					"tweet_id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: authenticated(func(p graphql.ResolveParams, viewerID uint) (interface{}, error) {
					tweetID, err := uintArg(p, "tweet_id")
					if err != nil {
						return nil, err
					}
					return r.Tweets.Delete(p.Context, viewerID, tweetID)
				}),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}

func (r *Resolver) resolveUser(p graphql.ResolveParams, _ uint) (interface{}, error) {
	if _, ok := p.Args["user_id"]; ok {
		userID, err := uintArg(p, "user_id")
		if err != nil {
			return nil, err
		}
		return r.Users.Get(p.Context, userID)
	}
	if username := stringArg(p, "username"); username != "" {
		return r.Users.GetByUsername(p.Context, username)
	}
	return nil, models.NewValidationError("Need either user_id or username")
}

func (r *Resolver) resolveAddUser(p graphql.ResolveParams) (interface{}, error) {
	avatar, err := fileArg(p, "avatar")
	if err != nil {
		return nil, err
	}
	user, token, err := r.Auth.Register(p.Context, service.RegisterInput{
		Username: stringArg(p, "username"),
		Password: stringArg(p, "password"),
		Name:     stringArg(p, "name"),
		Bio:      stringArg(p, "bio"),
		Avatar:   avatar,
	})
	if err != nil {
		return nil, err
	}
	return authPayload{Token: token, User: user}, nil
}

func (r *Resolver) resolveUpdateUser(p graphql.ResolveParams, viewerID uint) (interface{}, error) {
	avatar, err := fileArg(p, "avatar")
	if err != nil {
		return nil, err
	}
	toAdd, err := idListArg(p, "followingToAdd")
	if err != nil {
		return nil, err
	}
	toRemove, err := idListArg(p, "followingToRemove")
	if err != nil {
		return nil, err
	}
	return r.Users.UpdateProfile(p.Context, service.UpdateProfileInput{
		UserID:            viewerID,
		Name:              stringArg(p, "name"),
		Bio:               stringArg(p, "bio"),
		Avatar:            avatar,
		FollowingToAdd:    toAdd,
		FollowingToRemove: toRemove,
	})
}
