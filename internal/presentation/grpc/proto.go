package grpc

// proto.go defines the gRPC server interface for aml.v1.AmlService. Messages
// travel through the JSON codec, so the request and response types below are
// plain Go structs rather than generated protobuf types.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "aml.v1.AmlService"

// AmlServiceServer is the server API for AmlService.
type AmlServiceServer interface {
	SubmitTransaction(context.Context, *SubmitTransactionRequest) (*TransactionResponse, error)
	ScoreTransaction(context.Context, *ScoreTransactionRequest) (*ScoreTransactionResponse, error)
	DetectStructuring(context.Context, *DetectStructuringRequest) (*DetectStructuringResponse, error)
	GetTransaction(context.Context, *GetTransactionRequest) (*TransactionResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	ReviewTransaction(context.Context, *ReviewTransactionRequest) (*TransactionResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
	mustEmbedUnimplementedAmlServiceServer()
}

// UnimplementedAmlServiceServer provides forward-compatible default implementations.
type UnimplementedAmlServiceServer struct{}

func (UnimplementedAmlServiceServer) SubmitTransaction(context.Context, *SubmitTransactionRequest) (*TransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitTransaction not implemented")
}
func (UnimplementedAmlServiceServer) ScoreTransaction(context.Context, *ScoreTransactionRequest) (*ScoreTransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ScoreTransaction not implemented")
}
func (UnimplementedAmlServiceServer) DetectStructuring(context.Context, *DetectStructuringRequest) (*DetectStructuringResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method DetectStructuring not implemented")
}
func (UnimplementedAmlServiceServer) GetTransaction(context.Context, *GetTransactionRequest) (*TransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetTransaction not implemented")
}
func (UnimplementedAmlServiceServer) ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListTransactions not implemented")
}
func (UnimplementedAmlServiceServer) ReviewTransaction(context.Context, *ReviewTransactionRequest) (*TransactionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ReviewTransaction not implemented")
}
func (UnimplementedAmlServiceServer) GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetStats not implemented")
}
func (UnimplementedAmlServiceServer) mustEmbedUnimplementedAmlServiceServer() {}

// RegisterAmlServiceServer registers the AmlServiceServer with the gRPC server.
func RegisterAmlServiceServer(s grpclib.ServiceRegistrar, srv AmlServiceServer) {
	s.RegisterService(&amlServiceDesc, srv)
}

var amlServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AmlServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "SubmitTransaction", Handler: unaryHandler("SubmitTransaction", AmlServiceServer.SubmitTransaction)},
		{MethodName: "ScoreTransaction", Handler: unaryHandler("ScoreTransaction", AmlServiceServer.ScoreTransaction)},
		{MethodName: "DetectStructuring", Handler: unaryHandler("DetectStructuring", AmlServiceServer.DetectStructuring)},
		{MethodName: "GetTransaction", Handler: unaryHandler("GetTransaction", AmlServiceServer.GetTransaction)},
		{MethodName: "ListTransactions", Handler: unaryHandler("ListTransactions", AmlServiceServer.ListTransactions)},
		{MethodName: "ReviewTransaction", Handler: unaryHandler("ReviewTransaction", AmlServiceServer.ReviewTransaction)},
		{MethodName: "GetStats", Handler: unaryHandler("GetStats", AmlServiceServer.GetStats)},
	},
	Streams: []grpclib.StreamDesc{},
}

// unaryHandler adapts a typed method to grpc.MethodHandler, running the
// server's interceptor chain when one is installed.
func unaryHandler[Req, Resp any](name string, method func(AmlServiceServer, context.Context, *Req) (*Resp, error)) grpclib.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		req := new(Req)
		if err := dec(req); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(AmlServiceServer), ctx, req)
		}
		return interceptor(ctx, req, &grpclib.UnaryServerInfo{Server: srv, FullMethod: fullMethod},
			func(ctx context.Context, r any) (any, error) {
				return method(srv.(AmlServiceServer), ctx, r.(*Req))
			})
	}
}
