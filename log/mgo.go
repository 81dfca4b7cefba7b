package log

import (
	"context"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/15mga/sigecs"
	"github.com/15mga/sigecs/util"
	"github.com/15mga/sigecs/worker"
)

const (
	mgoLog = "log"
)

type (
	mgoOption struct {
		logLvl     sigecs.TLevel
		db         string
		ttl        int32
		batch      int
		flushDur   time.Duration
		dbOpts     *options.DatabaseOptions
		clientOpts *options.ClientOptions
		logOpt     *options.CreateCollectionOptions
		logIdx     []mongo.IndexModel
	}
	MgoOption func(opt *mgoOption)
)

func MgoLogLvl(levels ...string) MgoOption {
	return func(opt *mgoOption) {
		opt.logLvl = sigecs.StrLvlToMask(levels...)
	}
}

func MgoDb(db string) MgoOption {
	return func(opt *mgoOption) {
		opt.db = db
	}
}

// MgoTtl is how long records are kept, in seconds.
func MgoTtl(ttl int32) MgoOption {
	return func(opt *mgoOption) {
		opt.ttl = ttl
	}
}

// MgoBatch is the record count that triggers an insert.
func MgoBatch(batch int) MgoOption {
	return func(opt *mgoOption) {
		opt.batch = batch
	}
}

func MgoFlushDur(dur time.Duration) MgoOption {
	return func(opt *mgoOption) {
		opt.flushDur = dur
	}
}

func MgoUri(uri string) MgoOption {
	return func(opt *mgoOption) {
		opt.clientOpts = options.Client().ApplyURI(uri)
	}
}

func MgoClientOptions(opts *options.ClientOptions) MgoOption {
	return func(opt *mgoOption) {
		opt.clientOpts = opts
	}
}

func MgoDbOptions(opts *options.DatabaseOptions) MgoOption {
	return func(opt *mgoOption) {
		opt.dbOpts = opts
	}
}

func MgoLogOpt(option *options.CreateCollectionOptions) MgoOption {
	return func(opt *mgoOption) {
		opt.logOpt = option
	}
}

func MgoLogIdx(index ...mongo.IndexModel) MgoOption {
	return func(opt *mgoOption) {
		opt.logIdx = index
	}
}

// NewMgo connects and prepares the log collection. Records are inserted in
// batches from a worker, and flushed before the process exits.
func NewMgo(opts ...MgoOption) (*mgoLogger, *util.Err) {
	opt := &mgoOption{
		logLvl:   sigecs.LvlToMask(sigecs.TestLevels...),
		db:       "log",
		ttl:      3600 * 24 * 7,
		batch:    64,
		flushDur: time.Second * 5,
	}
	for _, o := range opts {
		o(opt)
	}
	if opt.clientOpts == nil {
		opt.clientOpts = options.Client().ApplyURI("mongodb://localhost:27017")
	}
	l := &mgoLogger{
		option: opt,
	}
	err := l.conn()
	if err != nil {
		return nil, err
	}
	err = l.initColl()
	if err != nil {
		return nil, err
	}
	l.worker = worker.NewWorker[any](l.process)
	l.worker.Start()

	ctx, ccl := context.WithCancel(context.Background())
	l.ccl = ccl
	go func() {
		ticker := time.NewTicker(opt.flushDur)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				l.worker.Push(struct{}{})
			case <-ctx.Done():
				return
			}
		}
	}()
	sigecs.BeforeExitFn("mgo log", l.Dispose)
	return l, nil
}

type mgoLogger struct {
	option *mgoOption
	client *mongo.Client
	db     *mongo.Database
	coll   *mongo.Collection
	worker *worker.Worker[any]
	buffer []any
	ccl    context.CancelFunc
}

func (l *mgoLogger) conn() *util.Err {
	ctx, ccl := context.WithTimeout(context.Background(), time.Second*5)
	defer ccl()
	client, e := mongo.Connect(ctx, l.option.clientOpts)
	if e != nil {
		return util.WrapErr(util.EcConnectErr, e)
	}

	e = client.Ping(ctx, readpref.Primary())
	if e != nil {
		_ = client.Disconnect(context.Background())
		return util.WrapErr(util.EcConnectErr, e)
	}
	l.client = client
	l.db = client.Database(l.option.db, l.option.dbOpts)
	return nil
}

func (l *mgoLogger) initColl() *util.Err {
	ctx := context.TODO()
	names, e := l.db.ListCollectionNames(ctx, bson.D{})
	if e != nil {
		return util.WrapErr(util.EcServiceErr, e)
	}
	exist := false
	for _, name := range names {
		if name == mgoLog {
			exist = true
			break
		}
	}
	if !exist {
		e = l.db.CreateCollection(ctx, mgoLog, l.option.logOpt)
		if e != nil {
			return util.WrapErr(util.EcServiceErr, e)
		}
	}
	l.coll = l.db.Collection(mgoLog)
	_, _ = l.coll.Indexes().CreateMany(ctx,
		append(l.option.logIdx,
			mongo.IndexModel{
				Keys:    bson.D{{Key: "ts", Value: -1}},
				Options: options.Index().SetExpireAfterSeconds(l.option.ttl),
			},
			mongo.IndexModel{
				Keys: bson.D{{Key: "lvl", Value: 1}},
			}))
	l.buffer = make([]any, 0, l.option.batch)
	return nil
}

func (l *mgoLogger) Log(level sigecs.TLevel, msg, caller string, stack []byte, params util.M) {
	if !util.TestMask(level, l.option.logLvl) {
		return
	}
	l.worker.Push(mgoRecord{
		Timestamp: time.Now(),
		Level:     sigecs.LevelToStr(level),
		Message:   msg,
		Stack:     string(stack),
		Caller:    caller,
		Params:    params.Copy(),
	})
}

func (l *mgoLogger) process(data any) {
	switch d := data.(type) {
	case mgoRecord:
		l.buffer = append(l.buffer, d)
		if len(l.buffer) >= l.option.batch {
			l.flush()
		}
	case struct{}:
		l.flush()
	}
}

func (l *mgoLogger) flush() {
	if len(l.buffer) == 0 {
		return
	}
	_, e := l.coll.InsertMany(context.TODO(), l.buffer)
	if e != nil {
		_, _ = os.Stderr.WriteString(e.Error() + "\n")
	}
	for i := range l.buffer {
		l.buffer[i] = nil
	}
	l.buffer = l.buffer[:0]
}

// Dispose flushes what is queued and disconnects.
func (l *mgoLogger) Dispose() {
	l.ccl()
	l.worker.Push(struct{}{})
	l.worker.Dispose()
	_ = l.client.Disconnect(context.Background())
}

type mgoRecord struct {
	Timestamp time.Time `bson:"ts"`
	Level     string    `bson:"lvl"`
	Message   string    `bson:"msg"`
	Stack     string    `bson:"stk,omitempty"`
	Caller    string    `bson:"cl"`
	Params    util.M    `bson:"p,omitempty"`
}
