package imports

import "github.com/ewasm/wasm-chisel/wasm"

// ewasmImports is the Ethereum Environment Interface.
var ewasmImports = []ImportType{
	fn("ethereum", "useGas", params(wasm.ValI64), nil),
	fn("ethereum", "getGasLeft", nil, params(wasm.ValI64)),
	fn("ethereum", "getAddress", params(wasm.ValI32), nil),
	fn("ethereum", "getExternalBalance", params(wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "getBlockHash", params(wasm.ValI64, wasm.ValI32), params(wasm.ValI32)),
	fn("ethereum", "call", params(wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("ethereum", "callCode", params(wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("ethereum", "callDelegate", params(wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("ethereum", "callStatic", params(wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("ethereum", "create", params(wasm.ValI64, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("ethereum", "callDataCopy", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "getCallDataSize", nil, params(wasm.ValI32)),
	fn("ethereum", "getCodeSize", nil, params(wasm.ValI32)),
	fn("ethereum", "getExternalCodeSize", params(wasm.ValI32), params(wasm.ValI32)),
	fn("ethereum", "externalCodeCopy", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "codeCopy", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "getCaller", params(wasm.ValI32), nil),
	fn("ethereum", "getCallValue", params(wasm.ValI32), nil),
	fn("ethereum", "getBlockDifficulty", params(wasm.ValI32), nil),
	fn("ethereum", "getBlockCoinbase", params(wasm.ValI32), nil),
	fn("ethereum", "getBlockNumber", nil, params(wasm.ValI64)),
	fn("ethereum", "getBlockGasLimit", nil, params(wasm.ValI64)),
	fn("ethereum", "getBlockTimestamp", nil, params(wasm.ValI64)),
	fn("ethereum", "getTxGasPrice", params(wasm.ValI32), nil),
	fn("ethereum", "getTxOrigin", params(wasm.ValI32), nil),
	fn("ethereum", "storageStore", params(wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "storageLoad", params(wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "log", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "getReturnDataSize", nil, params(wasm.ValI32)),
	fn("ethereum", "returnDataCopy", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "finish", params(wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "revert", params(wasm.ValI32, wasm.ValI32), nil),
	fn("ethereum", "selfDestruct", params(wasm.ValI32), nil),
}

// eth2Imports is the Eth2 execution environment interface.
var eth2Imports = []ImportType{
	fn("eth2", "loadPreStateRoot", params(wasm.ValI32), nil),
	fn("eth2", "blockDataSize", nil, params(wasm.ValI32)),
	fn("eth2", "blockDataCopy", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), nil),
	fn("eth2", "savePostStateRoot", params(wasm.ValI32), nil),
	fn("eth2", "pushNewDeposit", params(wasm.ValI32, wasm.ValI32), nil),
}

// debugImports is the debugging extension of the EEI.
var debugImports = []ImportType{
	fn("debug", "print32", params(wasm.ValI32), nil),
	fn("debug", "print64", params(wasm.ValI64), nil),
	fn("debug", "printMem", params(wasm.ValI32, wasm.ValI32), nil),
	fn("debug", "printMemHex", params(wasm.ValI32, wasm.ValI32), nil),
	fn("debug", "printStorage", params(wasm.ValI32), nil),
	fn("debug", "printStorageHex", params(wasm.ValI32), nil),
}

// bignumImports are the 256-bit arithmetic host functions.
var bignumImports = []ImportType{
	fn("bignum", "mul256", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), nil),
	fn("bignum", "umulmod256", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), nil),
}

// wasiImports is the wasi_unstable surface.
var wasiImports = []ImportType{
	fn("wasi_unstable", "args_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "args_sizes_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "environ_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "environ_sizes_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "clock_res_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "clock_time_get", params(wasm.ValI32, wasm.ValI64, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_advise", params(wasm.ValI32, wasm.ValI64, wasm.ValI64, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_allocate", params(wasm.ValI32, wasm.ValI64, wasm.ValI64), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_close", params(wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_datasync", params(wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_fdstat_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_fdstat_set_flags", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_fdstat_set_rights", params(wasm.ValI32, wasm.ValI64, wasm.ValI64), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_filestat_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_filestat_set_size", params(wasm.ValI32, wasm.ValI64), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_filestat_set_times", params(wasm.ValI32, wasm.ValI64, wasm.ValI64, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_pread", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI64, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_prestat_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_prestat_dir_name", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_pwrite", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI64, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_read", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_readdir", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI64, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_renumber", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_seek", params(wasm.ValI32, wasm.ValI64, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_sync", params(wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_tell", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "fd_write", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_create_directory", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_filestat_get", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_filestat_set_times", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI64, wasm.ValI64, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_link", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_open", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI64, wasm.ValI64, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_readlink", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_remove_directory", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_rename", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_symlink", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "path_unlink_file", params(wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "poll_oneoff", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "proc_exit", params(wasm.ValI32), nil),
	fn("wasi_unstable", "proc_raise", params(wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "sched_yield", nil, params(wasm.ValI32)),
	fn("wasi_unstable", "random_get", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "sock_recv", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "sock_send", params(wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
	fn("wasi_unstable", "sock_shutdown", params(wasm.ValI32, wasm.ValI32), params(wasm.ValI32)),
}

func params(types ...wasm.ValType) []wasm.ValType { return types }
