package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"

	"github.com/mkovacevic/equilog/pkg"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	TokenHeader      = "X-EQUILOG-TOKEN"
	sessionKeyPrefix = "equilog-session||"
	tokensSetKey     = "equilog-sessions"

	minPasswordLength = 6
)

var ErrWrongCredentials = errors.New("wrong credentials")

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type SessionEventType string

const (
	SessionOpened  SessionEventType = "opened"
	SessionClosed  SessionEventType = "closed"
	SessionExpired SessionEventType = "expired"
)

// SessionEvent is broadcast to subscribers on every session change.
type SessionEvent struct {
	Type   SessionEventType
	UserID string
}

type usersRepo interface {
	Add(ctx context.Context, user User) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
}

type Service struct {
	users       usersRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)

	subsMutex sync.Mutex
	subs      map[int]chan SessionEvent
	nextSubID int
}

func NewService(users usersRepo, ttl time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		users:          users,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
		subs:           map[int]chan SessionEvent{},
	}
}

// Subscribe returns a channel of session events plus an unsubscribe func.
// Slow subscribers miss events rather than block logins.
func (as *Service) Subscribe() (<-chan SessionEvent, func()) {
	as.subsMutex.Lock()
	defer as.subsMutex.Unlock()

	id := as.nextSubID
	as.nextSubID++
	ch := make(chan SessionEvent, 16)
	as.subs[id] = ch

	return ch, func() {
		as.subsMutex.Lock()
		defer as.subsMutex.Unlock()
		if sub, ok := as.subs[id]; ok {
			delete(as.subs, id)
			close(sub)
		}
	}
}

func (as *Service) publish(event SessionEvent) {
	as.subsMutex.Lock()
	defer as.subsMutex.Unlock()

	for _, sub := range as.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

func (as *Service) Register(ctx context.Context, credentials Credentials) (*User, error) {
	if credentials.Username == "" {
		return nil, errors.New("username empty")
	}
	if len(credentials.Password) < minPasswordLength {
		return nil, fmt.Errorf("password has to be at least %d characters", minPasswordLength)
	}

	passwordHash, err := pkg.HashPassword(credentials.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return as.users.Add(ctx, User{
		Username:     credentials.Username,
		PasswordHash: passwordHash,
	})
}

func (as *Service) Login(ctx context.Context, credentials Credentials, createdAt time.Time) (string, *User, error) {
	user, err := as.users.GetByUsername(ctx, credentials.Username)
	if errors.Is(err, ErrUserNotFound) {
		return "", nil, ErrWrongCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if !pkg.CheckPasswordHash(credentials.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", credentials.Username)
		return "", nil, ErrWrongCredentials
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", nil, err
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, sessionValue(user.ID, createdAt), 0)
	if err := cmdSet.Err(); err != nil {
		return "", nil, err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", nil, err
	}

	as.publish(SessionEvent{Type: SessionOpened, UserID: user.ID})
	return token, user, nil
}

func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}

	userID, _, err := parseSessionValue(cmd.Val())
	if err != nil {
		return false, err
	}

	cmdDel := as.redisClient.Del(ctx, sessionKey)
	if err := cmdDel.Err(); err != nil {
		return false, err
	}

	// remove token from the list of sessions
	cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
	if err := cmdSRem.Err(); err != nil {
		return false, err
	}

	as.publish(SessionEvent{Type: SessionClosed, UserID: userID})
	return true, nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Warnln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Warnf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	expiredUsers := map[string]string{}
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := as.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		userID, createdAt, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		if time.Since(createdAt) > as.ttl {
			log.Warnf("=>\twill clean the session with token: %s", token)
			expiredUsers[token] = userID
		}
	}

	for token, userID := range expiredUsers {
		sessionKey := sessionKeyPrefix + token
		cmdDel := as.redisClient.Del(ctx, sessionKey)
		if err := cmdDel.Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		// remove token from the list of sessions
		cmdSRem := as.redisClient.SRem(ctx, tokensSetKey, token)
		if err := cmdSRem.Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}

		as.publish(SessionEvent{Type: SessionExpired, UserID: userID})
	}
}

func sessionValue(userID string, createdAt time.Time) string {
	return fmt.Sprintf("%s|%d", userID, createdAt.Unix())
}

func parseSessionValue(val string) (userID string, createdAt time.Time, err error) {
	userID, createdAtUnixStr, found := strings.Cut(val, "|")
	if !found || userID == "" {
		return "", time.Time{}, fmt.Errorf("malformed session value [%s]", val)
	}
	createdAtUnix, err := strconv.ParseInt(createdAtUnixStr, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("malformed session timestamp [%s]", val)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}
