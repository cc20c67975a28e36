package instagram

import (
	"net/http"

	"github.com/goliatone/go-socialconnect/core"
	"github.com/goliatone/go-socialconnect/mapping"
)

// Operation names accepted by Client.Call.
const (
	OpGetUser                = "get_user"
	OpGetUserSelfFeed        = "get_user_self_feed"
	OpGetUserMediaRecent     = "get_user_media_recent"
	OpGetUserSelfMediaLiked  = "get_user_self_media_liked"
	OpGetUserSearch          = "get_user_search"
	OpGetUserFollows         = "get_user_follows"
	OpGetUserFollowedBy      = "get_user_followed_by"
	OpGetUserSelfRequestedBy = "get_user_self_requested_by"
	OpGetUserRelationship    = "get_user_relationship"
	OpSetUserRelationship    = "set_user_relationship"
	OpGetMedia               = "get_media"
	OpGetMediaSearch         = "get_media_search"
	OpGetMediaPopular        = "get_media_popular"
	OpGetComments            = "get_comments"
	OpPostComment            = "post_comment"
	OpDeleteComment          = "delete_comment"
	OpGetLikes               = "get_likes"
	OpPostLike               = "post_like"
	OpDeleteLike             = "delete_like"
	OpGetTag                 = "get_tag"
	OpGetTagMediaRecent      = "get_tag_media_recent"
	OpGetTagsSearch          = "get_tags_search"
	OpGetLocation            = "get_location"
	OpGetLocationMediaRecent = "get_location_media_recent"
	OpGetLocationSearch      = "get_location_search"
)

// Relationship actions accepted by set_user_relationship.
const (
	ActionFollow   = "follow"
	ActionUnfollow = "unfollow"
	ActionBlock    = "block"
	ActionUnblock  = "unblock"
	ActionApprove  = "approve"
	ActionIgnore   = "ignore"
)

var (
	pageParams     = []string{"count", "min_id", "max_id"}
	timeRangeParam = []string{"min_timestamp", "max_timestamp"}
)

// Endpoints lists every resource endpoint relative to the API base URL.
func Endpoints() []core.Endpoint {
	return []core.Endpoint{
		get(OpGetUser, "/users/{user_id}", mapping.KindUser, "retrieveUserCompleted", required("user_id")),
		get(OpGetUserSelfFeed, "/users/self/feed", mapping.KindMedia, "retrieveUserSelfFeedCompleted", optional(pageParams...)),
		get(OpGetUserMediaRecent, "/users/{user_id}/media/recent/", mapping.KindMedia, "retrieveUserMediaRecentCompleted",
			required("user_id"), optional(append(append([]string(nil), pageParams...), timeRangeParam...)...)),
		get(OpGetUserSelfMediaLiked, "/users/self/media/liked", mapping.KindMedia, "retrieveUserSelfMediaLikedCompleted",
			optional("count", "max_like_id")),
		get(OpGetUserSearch, "/users/search", mapping.KindUser, "retrieveUserSearchCompleted", required("q"), optional("count")),
		get(OpGetUserFollows, "/users/{user_id}/follows", mapping.KindUser, "retrieveUserFollowsCompleted", required("user_id")),
		get(OpGetUserFollowedBy, "/users/{user_id}/followed-by", mapping.KindUser, "retrieveUserFollowedByCompleted", required("user_id")),
		get(OpGetUserSelfRequestedBy, "/users/self/requested-by", mapping.KindUser, "retrieveUserSelfRequestedByCompleted"),
		get(OpGetUserRelationship, "/users/{user_id}/relationship", mapping.KindRelationship, "retrieveUserRelationshipCompleted",
			required("user_id")),
		post(OpSetUserRelationship, "/users/{user_id}/relationship", mapping.KindRelationship, "setUserRelationshipCompleted",
			required("user_id", "action")),
		get(OpGetMedia, "/media/{media_id}", mapping.KindMedia, "retrieveMediaCompleted", required("media_id")),
		get(OpGetMediaSearch, "/media/search", mapping.KindMedia, "retrieveMediaSearchCompleted",
			optional("lat", "lng", "min_timestamp", "max_timestamp", "distance")),
		get(OpGetMediaPopular, "/media/popular", mapping.KindMedia, "retrieveMediaPopularCompleted"),
		get(OpGetComments, "/media/{media_id}/comments", mapping.KindComment, "retrieveCommentsCompleted", required("media_id")),
		post(OpPostComment, "/media/{media_id}/comments", mapping.KindComment, "postCommentCompleted", required("media_id", "text")),
		del(OpDeleteComment, "/media/{media_id}/comments/{comment_id}", "deleteCommentCompleted", required("media_id", "comment_id")),
		get(OpGetLikes, "/media/{media_id}/likes", mapping.KindLike, "retrieveLikesCompleted", required("media_id")),
		post(OpPostLike, "/media/{media_id}/likes", mapping.KindEmpty, "postLikeCompleted", required("media_id")),
		del(OpDeleteLike, "/media/{media_id}/likes", "deleteLikeCompleted", required("media_id")),
		get(OpGetTag, "/tags/{tag_name}", mapping.KindTag, "getTagCompleted", required("tag_name")),
		get(OpGetTagMediaRecent, "/tags/{tag_name}/media/recent", mapping.KindMedia, "getTagMediaRecentCompleted",
			required("tag_name"), optional("min_id", "max_id")),
		get(OpGetTagsSearch, "/tags/search", mapping.KindTag, "getTagsSearchCompleted", required("q")),
		get(OpGetLocation, "/locations/{location_id}", mapping.KindLocation, "getLocationCompleted", required("location_id")),
		get(OpGetLocationMediaRecent, "/locations/{location_id}/media/recent", mapping.KindMedia, "getLocationMediaRecentCompleted",
			required("location_id")),
		get(OpGetLocationSearch, "/locations/search", mapping.KindLocation, "getLocationSearchCompleted",
			optional("lat", "lng", "foursquare_v2_id", "distance")),
	}
}

type endpointOption func(*core.Endpoint)

func required(names ...string) endpointOption {
	return func(e *core.Endpoint) {
		e.Required = append(e.Required, names...)
	}
}

func optional(names ...string) endpointOption {
	return func(e *core.Endpoint) {
		e.Optional = append(e.Optional, names...)
	}
}

func get(name string, path string, mapper string, notification string, opts ...endpointOption) core.Endpoint {
	return endpoint(http.MethodGet, name, path, mapper, notification, opts...)
}

func post(name string, path string, mapper string, notification string, opts ...endpointOption) core.Endpoint {
	return endpoint(http.MethodPost, name, path, mapper, notification, opts...)
}

func del(name string, path string, notification string, opts ...endpointOption) core.Endpoint {
	return endpoint(http.MethodDelete, name, path, mapping.KindEmpty, notification, opts...)
}

func endpoint(method string, name string, path string, mapper string, notification string, opts ...endpointOption) core.Endpoint {
	e := core.Endpoint{
		Name:         name,
		Method:       method,
		URLTemplate:  path,
		Mapper:       mapper,
		Notification: notification,
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e
}
